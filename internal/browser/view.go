// Package browser renders content listings and the wishlist for the terminal.
package browser

import (
	"fmt"
	"io"
	"strings"

	"github.com/barjames/funeral-planner/internal/document"
	"github.com/barjames/funeral-planner/internal/media"
	"github.com/barjames/funeral-planner/internal/models"
	"github.com/barjames/funeral-planner/internal/selection"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// PreviewLength is how many characters of a body are shown collapsed.
const PreviewLength = 200

const ellipsis = "..."

// Row is one rendered item.
type Row struct {
	ID    string
	Title string
	// Text is the preview or the full body, depending on Expanded.
	Text      string
	Truncated bool
	Expanded  bool
	// Link is an outbound link; Embed is set instead when the link is a
	// recognized video.
	Link  string
	Embed string
	State selection.ButtonState
}

// View is the listing for one category.
type View struct {
	category models.Category
	sel      *selection.Store
	items    []models.ContentItem
	expanded map[string]bool
	loaded   bool
	loadErr  error
}

// NewView creates an unloaded view. sel may be nil when no wishlist is in use.
func NewView(cat models.Category, sel *selection.Store) *View {
	return &View{
		category: cat,
		sel:      sel,
		expanded: make(map[string]bool),
	}
}

// LoadingLine is shown while items are fetched.
func LoadingLine(cat models.Category) string {
	return fmt.Sprintf("Loading %s...", cat.Key)
}

// EmptyLine is shown when the category has no items.
func EmptyLine(cat models.Category) string {
	return fmt.Sprintf("No %s have been added yet.", cat.Key)
}

// SetItems loads fetched items. Items without an id are skipped.
func (v *View) SetItems(items []models.ContentItem) {
	v.items = v.items[:0]
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		v.items = append(v.items, item)
	}
	v.loaded = true
	v.loadErr = nil
}

// SetError records a failed fetch.
func (v *View) SetError(err error) {
	v.loaded = true
	v.loadErr = err
}

// Status is the single line shown instead of rows: the loading, error or
// empty placeholder. It is "" when there are rows to show.
func (v *View) Status() string {
	switch {
	case !v.loaded:
		return LoadingLine(v.category)
	case v.loadErr != nil:
		return fmt.Sprintf("Error loading %s: %v. Please try again later.", v.category.Key, v.loadErr)
	case len(v.items) == 0:
		return EmptyLine(v.category)
	default:
		return ""
	}
}

// ToggleFull flips an item between preview and full text and reports the
// new state. Unknown ids stay collapsed.
func (v *View) ToggleFull(id string) bool {
	for _, item := range v.items {
		if item.ID == id {
			v.expanded[id] = !v.expanded[id]
			return v.expanded[id]
		}
	}
	return false
}

// ExpandAll shows the full text of every item.
func (v *View) ExpandAll() {
	for _, item := range v.items {
		v.expanded[item.ID] = true
	}
}

// Rows returns the items as displayed.
func (v *View) Rows() []Row {
	rows := make([]Row, 0, len(v.items))
	for _, item := range v.items {
		row := Row{
			ID:       item.ID,
			Title:    item.Title,
			Expanded: v.expanded[item.ID],
		}

		if body := document.PlainText(item.Content); body != "" {
			preview, truncated := Preview(body)
			row.Truncated = truncated
			row.Text = preview
			if row.Expanded {
				row.Text = body
			}
		}

		if item.Link != "" {
			if embed := media.EmbedURL(item.Link); embed != "" && v.category.RequiresLink() {
				row.Embed = embed
			} else {
				row.Link = item.Link
			}
		}

		if v.sel != nil {
			row.State = v.sel.State(v.category, item.ID)
		}
		rows = append(rows, row)
	}
	return rows
}

// Preview cuts body to PreviewLength characters, appending an ellipsis when
// anything was cut.
func Preview(body string) (string, bool) {
	runes := []rune(body)
	if len(runes) <= PreviewLength {
		return body, false
	}
	return string(runes[:PreviewLength]) + ellipsis, true
}

// Render writes the status line, or the item table when there are rows.
func (v *View) Render(w io.Writer) error {
	if status := v.Status(); status != "" {
		_, err := fmt.Fprintln(w, status)
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.SetTitle(v.category.Name)
	tw.AppendHeader(table.Row{"ID", "Title", "Content", "Wishlist"})

	for _, row := range v.Rows() {
		tw.AppendRow(table.Row{row.ID, row.Title, rowContent(row), rowAction(row, v.sel != nil)})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 40},
		{Number: 3, WidthMax: 80},
		{Number: 4, Align: text.AlignCenter},
	})
	tw.Render()
	return nil
}

func rowContent(row Row) string {
	var parts []string
	if row.Text != "" {
		parts = append(parts, row.Text)
	}
	if row.Truncated && !row.Expanded {
		parts = append(parts, "(use --full to show more)")
	}
	if row.Embed != "" {
		parts = append(parts, "Player: "+row.Embed)
	}
	if row.Link != "" {
		parts = append(parts, "Link: "+row.Link)
	}
	return strings.Join(parts, "\n")
}

func rowAction(row Row, withSelection bool) string {
	if !withSelection {
		return ""
	}
	return row.State.Label()
}
