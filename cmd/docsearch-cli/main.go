package main

import (
	"context"
	"os"

	"github.com/futig/docsearch-backend/internal/builder"
	"github.com/futig/docsearch-backend/internal/cli"
)

func main() {
	err := cli.Execute(func(ctx context.Context, environment string) (*cli.Services, error) {
		core, err := builder.BuildCore(ctx, environment)
		if err != nil {
			return nil, err
		}

		return &cli.Services{
			Documents:  core.Documents,
			Search:     core.Search,
			Evaluation: core.Evaluation,
			Close: func() {
				core.Close()
				_ = core.Logger.Sync()
			},
		}, nil
	})
	if err != nil {
		os.Exit(1)
	}
}
