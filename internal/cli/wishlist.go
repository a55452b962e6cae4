package cli

import (
	"github.com/barjames/funeral-planner/internal/browser"
	"github.com/barjames/funeral-planner/internal/selection"
	"github.com/spf13/cobra"
)

func (a *app) wishlistCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Show or change the selected items",
		RunE: func(_ *cobra.Command, _ []string) error {
			return browser.RenderWishlist(a.env.Out, a.store)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the selected items",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return browser.RenderWishlist(a.env.Out, a.store)
			},
		},
		&cobra.Command{
			Use:   "add <category> <id>",
			Short: "Add an item to the wishlist",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				cat, err := category(args[0])
				if err != nil {
					return err
				}

				item, err := a.api.Find(cmd.Context(), cat.Key, args[1])
				if err != nil {
					return err
				}

				res := a.store.Add(cmd.Context(), cat, item.ID, item.Title)
				if res.Outcome == selection.Added {
					a.printf("Added %q to %s.\n", item.Title, cat.Key)
				}
				a.notice(res)
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove <category> <id>",
			Short: "Remove an item from the wishlist",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				cat, err := category(args[0])
				if err != nil {
					return err
				}

				res := a.store.Remove(cmd.Context(), cat, args[1])
				if res.Outcome == selection.Removed {
					a.printf("Removed %s from %s.\n", args[1], cat.Key)
				}
				a.notice(res)
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every item from the wishlist",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				res := a.store.Clear(cmd.Context())
				a.printf("Wishlist cleared.\n")
				a.notice(res)
				return nil
			},
		},
	)
	return cmd
}
