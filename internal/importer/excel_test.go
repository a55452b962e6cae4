package importer_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/barjames/funeral-planner/internal/importer"
	"github.com/barjames/funeral-planner/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// createTestExcel builds an in-memory workbook with headers in row 1.
func createTestExcel(t *testing.T, headers []string, rows [][]string) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	const sheet = "Sheet1"

	for i, h := range headers {
		c, err := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, c, h))
	}
	for rowIdx, row := range rows {
		for colIdx, val := range row {
			c, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, c, val))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func category(t *testing.T, key string) models.Category {
	t.Helper()
	cat, ok := models.Lookup(key)
	require.True(t, ok)
	return cat
}

func TestValidateRow(t *testing.T) {
	t.Parallel()

	readings := category(t, models.Readings)
	music := category(t, models.Music)

	tests := []struct {
		name    string
		cat     models.Category
		row     importer.ContentRow
		wantErr string
	}{
		{name: "valid reading", cat: readings, row: importer.ContentRow{Title: "Psalm 23", Body: "The Lord is my shepherd"}},
		{name: "valid song", cat: music, row: importer.ContentRow{Title: "Hallelujah", Body: "https://youtu.be/y8AWFf7EAc4"}},
		{name: "missing title", cat: readings, row: importer.ContentRow{Body: "text"}, wantErr: "Missing required field: title"},
		{name: "missing content", cat: readings, row: importer.ContentRow{Title: "t"}, wantErr: "Missing required field: content"},
		{name: "missing link", cat: music, row: importer.ContentRow{Title: "t"}, wantErr: "Missing required field: link"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantErr, importer.ValidateRow(tt.cat, tt.row))
		})
	}
}

func TestParseExcelFile(t *testing.T) {
	t.Parallel()

	reader := createTestExcel(t, []string{"Title", "Content", "notes"}, [][]string{
		{"Psalm 23", "The Lord is my shepherd", "x"},
		{"", ""},
		{"No body"},
		{"Romans 8", "Nothing can separate us"},
	})

	rows, rowErrors, err := importer.ParseExcelFile(reader, category(t, models.Readings))
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Row)
	assert.Equal(t, "Psalm 23", rows[0].Title)
	assert.Equal(t, 5, rows[1].Row)

	require.Len(t, rowErrors, 1)
	assert.Equal(t, importer.ImportError{Row: 4, Error: "Missing required field: content"}, rowErrors[0])
}

func TestParseExcelFile_LinkColumnForMusic(t *testing.T) {
	t.Parallel()

	reader := createTestExcel(t, []string{"link", "title"}, [][]string{
		{"https://youtu.be/dQw4w9WgXcQ", "Song"},
	})

	rows, rowErrors, err := importer.ParseExcelFile(reader, category(t, models.Music))
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, rows, 1)
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", rows[0].Body)
	assert.Equal(t, "https://youtu.be/dQw4w9WgXcQ", rows[0].Request(category(t, models.Music)).Link)
}

func TestParseExcelFile_InvalidWorkbooks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		reader  *bytes.Reader
		wantMsg string
	}{
		{name: "not xlsx", reader: bytes.NewReader([]byte("title,content\n")), wantMsg: "invalid workbook"},
		{name: "no header", reader: createTestExcel(t, nil, nil), wantMsg: "missing header row"},
		{name: "missing title", reader: createTestExcel(t, []string{"content"}, nil), wantMsg: `missing "title" column`},
		{name: "wrong payload column", reader: createTestExcel(t, []string{"title", "link"}, nil), wantMsg: `missing "content" column`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := importer.ParseExcelFile(tt.reader, category(t, models.Poems))
			require.ErrorIs(t, err, importer.ErrInvalidWorkbook)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

type fakeCreator struct {
	created []models.CreateRequest
	failAt  int
}

func (f *fakeCreator) Create(_ context.Context, _ string, req models.CreateRequest) (*models.ContentItem, error) {
	if f.failAt > 0 && len(f.created)+1 == f.failAt {
		return nil, errors.New("database is locked")
	}
	f.created = append(f.created, req)
	return &models.ContentItem{Title: req.Title}, nil
}

func TestImport(t *testing.T) {
	t.Parallel()

	reader := createTestExcel(t, []string{"title", "content"}, [][]string{
		{"Prayer of St Francis", "Lord, make me an instrument of your peace"},
		{"", "orphan body"},
		{"Serenity Prayer", "God grant me the serenity"},
	})

	creator := &fakeCreator{}
	res, err := importer.Import(context.Background(), creator, category(t, models.Prayers), reader)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, []importer.ImportError{{Row: 3, Error: "Missing required field: title"}}, res.Errors)
	require.Len(t, creator.created, 2)
	assert.Equal(t, "Prayer of St Francis", creator.created[0].Title)
	assert.Equal(t, "Serenity Prayer", creator.created[1].Title)
}

func TestImport_StorageFailureStops(t *testing.T) {
	t.Parallel()

	reader := createTestExcel(t, []string{"title", "content"}, [][]string{
		{"One", "1"},
		{"Two", "2"},
		{"Three", "3"},
	})

	creator := &fakeCreator{failAt: 2}
	res, err := importer.Import(context.Background(), creator, category(t, models.Poems), reader)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "import row 3"))
	assert.Equal(t, 1, res.Imported)
}
