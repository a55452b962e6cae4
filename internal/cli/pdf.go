package cli

import (
	"fmt"
	"os"
	"path/filepath"

	infralogger "github.com/barjames/funeral-planner/infrastructure/logger"
	"github.com/spf13/cobra"
)

func (a *app) pdfCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Generate the service plan from the wishlist",
		Long:  "Send the wishlist to the server and save the returned PDF. Without -o the server's filename is used in the current directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.store.Total() == 0 {
				return errEmptyWishlist
			}

			doc, err := a.api.GeneratePDF(cmd.Context(), a.store.Payload())
			if err != nil {
				return fmt.Errorf("Could not generate PDF: %w", err) //nolint:staticcheck // user-facing sentence
			}

			path := output
			if path == "" {
				path = doc.Filename
			}
			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create %s: %w", dir, err)
				}
			}
			if err := os.WriteFile(path, doc.Content, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			a.env.Logger.Debug("Plan saved", infralogger.String("path", path), infralogger.Int("bytes", len(doc.Content)))
			a.printf("Saved plan to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write the PDF to")
	return cmd
}
