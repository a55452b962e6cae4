package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/barjames/funeral-planner/internal/models"
	"github.com/spf13/cobra"
)

func (a *app) adminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage the content library",
	}
	cmd.AddCommand(a.adminAddCommand(), a.adminDeleteCommand(), a.adminImportCommand())
	return cmd
}

func (a *app) adminAddCommand() *cobra.Command {
	var req models.CreateRequest

	cmd := &cobra.Command{
		Use:   "add <category>",
		Short: "Add an item",
		Long:  "Add an item. Music takes --link; every other category takes --content.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := category(args[0])
			if err != nil {
				return err
			}

			item, err := a.api.Create(cmd.Context(), cat.Key, req)
			if err != nil {
				return err
			}
			a.printf("Created %s item %s (%q)\n", cat.Key, item.ID, item.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Title, "title", "", "item title")
	cmd.Flags().StringVar(&req.Content, "content", "", "item text, may contain HTML")
	cmd.Flags().StringVar(&req.Link, "link", "", "item link (music)")
	return cmd
}

func (a *app) adminDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <category> <id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := category(args[0])
			if err != nil {
				return err
			}

			resp, err := a.api.Delete(cmd.Context(), cat.Key, args[1])
			if err != nil {
				return err
			}
			a.printf("%s\n", resp.Message)
			return nil
		},
	}
}

func (a *app) adminImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <category> <file.xlsx>",
		Short: "Import items from a spreadsheet",
		Long:  "Import items from the first sheet of an .xlsx workbook with a title column and a content (or link) column.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := category(args[0])
			if err != nil {
				return err
			}

			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("open workbook: %w", err)
			}
			defer func() { _ = f.Close() }()

			res, importErr := a.api.Import(cmd.Context(), cat.Key, filepath.Base(args[1]), f)
			if res != nil {
				a.printf("Imported %d %s item(s)\n", res.Imported, cat.Key)
				for _, rowErr := range res.Errors {
					a.printf("  row %d: %s\n", rowErr.Row, rowErr.Error)
				}
			}
			return importErr
		},
	}
}
