// Package importer bulk-loads content items from .xlsx spreadsheets.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/barjames/funeral-planner/internal/models"
	"github.com/barjames/funeral-planner/internal/service"
	"github.com/xuri/excelize/v2"
)

// headerRowIndex is the 1-based spreadsheet row holding column names.
const headerRowIndex = 1

// ErrInvalidWorkbook is returned when the upload cannot be read as a spreadsheet
// or lacks the required header columns.
var ErrInvalidWorkbook = errors.New("invalid workbook")

// ContentRow is one parsed data row.
type ContentRow struct {
	Row   int // spreadsheet row number, for error reporting
	Title string
	Body  string // content, or link for link categories
}

// ImportError describes a row that was not imported.
type ImportError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// Result is the outcome of an import.
type Result struct {
	Imported int           `json:"imported"`
	Errors   []ImportError `json:"errors"`
}

// Creator stores one item with the normal create rules.
type Creator interface {
	Create(ctx context.Context, category string, req models.CreateRequest) (*models.ContentItem, error)
}

// Request converts the row into a create request for cat.
func (r ContentRow) Request(cat models.Category) models.CreateRequest {
	req := models.CreateRequest{Title: r.Title}
	if cat.RequiresLink() {
		req.Link = r.Body
	} else {
		req.Content = r.Body
	}
	return req
}

// ValidateRow checks row against the create rules and returns the
// user-facing message, or "" when the row is acceptable.
func ValidateRow(cat models.Category, row ContentRow) string {
	_, err := service.NewItem(cat, row.Request(cat), time.Time{})
	if err == nil {
		return ""
	}
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}

// ParseExcelFile reads the first sheet of r. The header row must contain a
// "title" column and the category's payload column ("content" or "link");
// other columns are ignored. Blank rows are skipped. Rows failing
// validation are reported in the returned errors.
func ParseExcelFile(r io.Reader, cat models.Category) ([]ContentRow, []ImportError, error) {
	rows, err := openExcelRows(r)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%w: missing header row", ErrInvalidWorkbook)
	}

	titleCol, bodyCol, err := headerColumns(rows[0], cat.Field.Column())
	if err != nil {
		return nil, nil, err
	}

	parsed := make([]ContentRow, 0, len(rows)-1)
	var rowErrors []ImportError

	for i, cells := range rows[1:] {
		row := ContentRow{
			Row:   i + headerRowIndex + 1,
			Title: cell(cells, titleCol),
			Body:  cell(cells, bodyCol),
		}
		if strings.TrimSpace(row.Title) == "" && strings.TrimSpace(row.Body) == "" {
			continue
		}

		if msg := ValidateRow(cat, row); msg != "" {
			rowErrors = append(rowErrors, ImportError{Row: row.Row, Error: msg})
			continue
		}
		parsed = append(parsed, row)
	}

	return parsed, rowErrors, nil
}

// Import parses r and creates every valid row in spreadsheet order.
// A storage failure stops the import and is returned with the rows
// created so far counted in the result.
func Import(ctx context.Context, creator Creator, cat models.Category, r io.Reader) (*Result, error) {
	rows, rowErrors, err := ParseExcelFile(r, cat)
	if err != nil {
		return nil, err
	}

	result := &Result{Errors: make([]ImportError, 0, len(rowErrors))}
	result.Errors = append(result.Errors, rowErrors...)

	for _, row := range rows {
		if _, createErr := creator.Create(ctx, cat.Key, row.Request(cat)); createErr != nil {
			var ve *service.ValidationError
			if errors.As(createErr, &ve) {
				result.Errors = append(result.Errors, ImportError{Row: row.Row, Error: ve.Message})
				continue
			}
			return result, fmt.Errorf("import row %d: %w", row.Row, createErr)
		}
		result.Imported++
	}

	return result, nil
}

func openExcelRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWorkbook, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return [][]string{}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read rows: %w", ErrInvalidWorkbook, err)
	}
	if rows == nil {
		rows = [][]string{}
	}
	return rows, nil
}

func headerColumns(header []string, bodyName string) (titleCol, bodyCol int, err error) {
	titleCol, bodyCol = -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "title":
			titleCol = i
		case bodyName:
			bodyCol = i
		}
	}

	if titleCol < 0 {
		return 0, 0, fmt.Errorf("%w: missing \"title\" column", ErrInvalidWorkbook)
	}
	if bodyCol < 0 {
		return 0, 0, fmt.Errorf("%w: missing %q column", ErrInvalidWorkbook, bodyName)
	}
	return titleCol, bodyCol, nil
}

// cell returns the value at col, or "" for short rows.
func cell(cells []string, col int) string {
	if col < len(cells) {
		return cells[col]
	}
	return ""
}
