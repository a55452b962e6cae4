package cli

import (
	"github.com/barjames/funeral-planner/internal/browser"
	"github.com/spf13/cobra"
)

func (a *app) browseCommand() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "browse <category>",
		Short: "List the items in a category",
		Long:  "List the items in a category with a text preview or player link and whether each can still be added to the wishlist.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := category(args[0])
			if err != nil {
				return err
			}

			view := browser.NewView(cat, a.store)
			a.printf("%s\n", browser.LoadingLine(cat))

			items, err := a.api.List(cmd.Context(), cat.Key)
			if err != nil {
				view.SetError(err)
			} else {
				view.SetItems(items)
			}
			if full {
				view.ExpandAll()
			}
			return view.Render(a.env.Out)
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "show full text instead of previews")
	return cmd
}
