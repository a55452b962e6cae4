package browser

import (
	"fmt"
	"io"

	"github.com/barjames/funeral-planner/internal/models"
	"github.com/barjames/funeral-planner/internal/selection"
	"github.com/jedib0t/go-pretty/v6/table"
)

// EmptyWishlistLine is shown when nothing is selected.
const EmptyWishlistLine = "Your wishlist is currently empty. Add items from the content pages."

// EmptyWishlistNotice is shown when generating a plan from an empty wishlist.
const EmptyWishlistNotice = "Your wishlist is empty. Please add some items before generating a PDF."

// Summary returns one "Readings: 1 / 2 selected" line per category in
// canonical order.
func Summary(sel *selection.Store) []string {
	all := sel.GetAll()
	lines := make([]string, 0, len(all))
	for _, cat := range models.Categories() {
		lines = append(lines, fmt.Sprintf("%s: %d / %d selected", cat.Name, len(all[cat.Key]), selection.MaxPerCategory))
	}
	return lines
}

// RenderWishlist writes the summary lines followed by the selected items.
func RenderWishlist(w io.Writer, sel *selection.Store) error {
	for _, line := range Summary(sel) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	if sel.Total() == 0 {
		_, err := fmt.Fprintln(w, EmptyWishlistLine)
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Category", "ID", "Title"})

	all := sel.GetAll()
	for _, cat := range models.Categories() {
		for _, entry := range all[cat.Key] {
			tw.AppendRow(table.Row{cat.Name, entry.ID, entry.Title})
		}
	}
	tw.Render()
	return nil
}
