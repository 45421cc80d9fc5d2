package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/futig/docsearch-backend/internal/entity"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [organization] [file]",
	Short: "Ingest a document",
	Long: `Uploads a PDF, DOCX, TXT or Markdown file for an organization, then
chunks and embeds it. Ingesting a file with the same name replaces it.`,
	Args: cobra.ExactArgs(2),
	RunE: runIngest,
}

var filesCmd = &cobra.Command{
	Use:   "files [organization]",
	Short: "List ingested documents",
	Args:  cobra.ExactArgs(1),
	RunE:  runFiles,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [organization] [file-id]",
	Short: "Delete a document and its chunks",
	Args:  cobra.ExactArgs(2),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(ingestCmd, filesCmd, deleteCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured
	}

	data, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	file, err := documentService.Ingest(commandContext(cmd), &entity.UploadFileRequest{
		OrganizationID: args[0],
		FileName:       filepath.Base(args[1]),
		Content:        data,
	})
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingested %s (%d bytes) as %s\n", file.FileName, file.FileSize, file.ID)
	return nil
}

func runFiles(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured
	}

	files, err := documentService.ListFiles(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("list files failed: %w", err)
	}

	if len(files) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	for _, f := range files {
		status := "pending"
		if f.HasEmbeddings {
			status = "indexed"
		}
		cmd.Printf("  %s  %s  %d bytes  %s\n", f.ID, f.FileName, f.FileSize, status)
	}
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured
	}

	if err := documentService.DeleteFile(commandContext(cmd), args[0], args[1]); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	cmd.Printf("Deleted %s\n", args[1])
	return nil
}
