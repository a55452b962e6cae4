// Package document builds the printable funeral service plan from selected items.
package document

import (
	"bytes"
	"context"
	"fmt"
	"time"

	infralogger "github.com/barjames/funeral-planner/infrastructure/logger"
	"github.com/barjames/funeral-planner/internal/models"
	"github.com/barjames/funeral-planner/internal/service"
	"github.com/go-pdf/fpdf"
)

const (
	// DefaultFilename is used when none is configured.
	DefaultFilename = "funeral_plan.pdf"
	// Title heads every generated document.
	Title = "Funeral Service Plan"

	pageMargin    = 20.0
	titleSize     = 22.0
	headingSize   = 16.0
	itemTitleSize = 12.0
	bodySize      = 11.0
	lineHeight    = 6.0
)

// ErrEmptySelection is returned when nothing in the request resolves to a stored item.
var ErrEmptySelection error = &service.ValidationError{
	Message: "No valid items selected. Add items to your wishlist before generating a PDF.",
}

// Result is a rendered document. Nothing is persisted.
type Result struct {
	Content  []byte
	Filename string
	Items    int
}

// Generator renders service plans.
type Generator struct {
	store    ItemStore
	logger   infralogger.Logger
	filename string
	now      func() time.Time
	observe  func(items int)
}

// Option customizes a Generator.
type Option func(*Generator)

// WithFilename sets the download filename.
func WithFilename(name string) Option {
	return func(g *Generator) {
		if name != "" {
			g.filename = name
		}
	}
}

// WithClock replaces time.Now for the generation date.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithObserver is called with the item count of every generated document.
func WithObserver(fn func(items int)) Option {
	return func(g *Generator) { g.observe = fn }
}

// NewGenerator creates a generator reading items from store.
func NewGenerator(store ItemStore, log infralogger.Logger, opts ...Option) *Generator {
	g := &Generator{
		store:    store,
		logger:   log,
		filename: DefaultFilename,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate resolves wishlist against the store and renders the plan.
func (g *Generator) Generate(ctx context.Context, wishlist models.Wishlist) (*Result, error) {
	sections, err := Resolve(ctx, g.store, wishlist)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, ErrEmptySelection
	}

	content, err := Render(sections, g.now())
	if err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}

	items := CountItems(sections)
	g.logger.Info("Service plan generated",
		infralogger.Int("sections", len(sections)),
		infralogger.Int("items", items),
		infralogger.Int("bytes", len(content)),
	)
	if g.observe != nil {
		g.observe(items)
	}

	return &Result{Content: content, Filename: g.filename, Items: items}, nil
}

// Render draws sections into a PDF. Text is set in the core Helvetica font,
// so characters outside Windows-1252 are not representable.
func Render(sections []Section, generatedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle(Title, true)
	pdf.SetCreator("funeral-planner", true)
	pdf.SetCreationDate(generatedAt)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", titleSize)
	pdf.CellFormat(0, 12, tr(Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "I", bodySize)
	pdf.CellFormat(0, lineHeight, tr("Generated "+generatedAt.Format("January 2, 2006")), "", 1, "C", false, 0, "")
	pdf.Ln(lineHeight)

	for _, section := range sections {
		pdf.SetFont("Helvetica", "B", headingSize)
		pdf.CellFormat(0, 10, tr(section.Category.Name), "B", 1, "L", false, 0, "")
		pdf.Ln(2)

		for _, item := range section.Items {
			renderItem(pdf, tr, section.Category, item)
		}
		pdf.Ln(lineHeight / 2)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func renderItem(pdf *fpdf.Fpdf, tr func(string) string, cat models.Category, item models.ContentItem) {
	pdf.SetFont("Helvetica", "B", itemTitleSize)
	pdf.MultiCell(0, lineHeight+1, tr(item.Title), "", "L", false)

	pdf.SetFont("Helvetica", "", bodySize)
	if cat.RequiresLink() {
		pdf.SetTextColor(30, 80, 160)
		pdf.WriteLinkString(lineHeight, tr(item.Link), item.Link)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(lineHeight)
	} else {
		pdf.MultiCell(0, lineHeight, tr(PlainText(item.Content)), "", "L", false)
	}
	pdf.Ln(lineHeight / 2)
}
