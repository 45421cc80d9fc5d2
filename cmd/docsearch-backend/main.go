package main

import (
	"log"

	"github.com/futig/docsearch-backend/internal/builder"
)

func main() {
	app, err := builder.Build()
	if err != nil {
		log.Fatalf("build docsearch backend: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Fatalf("docsearch backend: %v", err)
	}
}
