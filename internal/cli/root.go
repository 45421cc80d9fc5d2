// Package cli is the operator command line for the document search
// pipeline: ingest files, ask questions and run evaluations without the
// HTTP server.
package cli

import (
	"context"
	"errors"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/spf13/cobra"
)

type DocumentService interface {
	Ingest(ctx context.Context, req *entity.UploadFileRequest) (*entity.SourceFile, error)
	ListFiles(ctx context.Context, organizationID string) ([]*entity.SourceFile, error)
	DeleteFile(ctx context.Context, organizationID, fileID string) error
}

type SearchService interface {
	Run(ctx context.Context, req *entity.SearchRequest) (entity.SearchResult, error)
}

type EvaluationService interface {
	GenerateTestQueries(ctx context.Context, req *entity.GenerateQueriesRequest) ([]entity.TestCase, error)
	RunSearchTests(ctx context.Context, req *entity.RunTestsRequest) (*entity.TestRunResult, error)
	RenderReport(result *entity.TestRunResult, format entity.ResultFormat) (*entity.Report, error)
}

// Services is what the commands run against.
type Services struct {
	Documents  DocumentService
	Search     SearchService
	Evaluation EvaluationService
	Close      func()
}

// Opener wires the services for the named environment.
type Opener func(ctx context.Context, environment string) (*Services, error)

var (
	environment string

	opener            Opener
	documentService   DocumentService
	searchService     SearchService
	evaluationService EvaluationService
	closeServices     func()
)

var errNotConfigured = errors.New("services not configured")

var rootCmd = &cobra.Command{
	Use:   "docsearch",
	Short: "Document search and answer extraction",
	Long: `Ingests organization documents into the semantic search store, answers
questions against them and evaluates answer quality.`,
	SilenceUsage:      true,
	PersistentPreRunE: openServices,
	PersistentPostRun: func(*cobra.Command, []string) {
		if closeServices != nil {
			closeServices()
			closeServices = nil
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&environment, "env", "local", "environment to load (local, prod, or custom)")
}

// Execute runs the command line with services built by open.
func Execute(open Opener) error {
	opener = open
	return rootCmd.Execute()
}

func openServices(cmd *cobra.Command, _ []string) error {
	// Tests install services directly.
	if opener == nil {
		return nil
	}

	services, err := opener(cmd.Context(), environment)
	if err != nil {
		return err
	}

	documentService = services.Documents
	searchService = services.Search
	evaluationService = services.Evaluation
	closeServices = services.Close
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
