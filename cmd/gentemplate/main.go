// Command gentemplate writes an example spreadsheet for the bulk import endpoint.
// Usage: go run ./cmd/gentemplate -category music -o examples/music-import.xlsx
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/barjames/funeral-planner/internal/models"
	"github.com/xuri/excelize/v2"
)

const contentSheet = "Content"

var examples = map[string][][]string{
	models.Readings: {
		{"Psalm 23", "The Lord is my shepherd; I shall not want."},
		{"Ecclesiastes 3:1-8", "To every thing there is a season, and a time to every purpose under the heaven."},
	},
	models.Gospels: {
		{"John 14:1-6", "Let not your heart be troubled: ye believe in God, believe also in me."},
	},
	models.Music: {
		{"Amazing Grace", "https://www.youtube.com/watch?v=CDdvReNKKuk"},
		{"Abide With Me", "https://youtu.be/Cp-hDQCtBZc"},
	},
	models.Prayers: {
		{"Prayer of St Francis", "Lord, make me an instrument of your peace."},
	},
	models.Poems: {
		{"Crossing the Bar", "Sunset and evening star,\nAnd one clear call for me!"},
	},
}

func main() {
	category := flag.String("category", models.Readings, "category the template is for")
	out := flag.String("o", "", "output path (default examples/<category>-import-template.xlsx)")
	flag.Parse()

	cat, ok := models.Lookup(*category)
	if !ok {
		log.Fatalf("unknown category %q", *category)
	}

	path := *out
	if path == "" {
		path = filepath.Join("examples", cat.Key+"-import-template.xlsx")
	}

	if err := writeTemplate(cat, path); err != nil {
		log.Fatal(err)
	}
	log.Printf("Created %s", path)
}

func writeTemplate(cat models.Category, path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", contentSheet); err != nil {
		return err
	}

	rows := append([][]string{{"title", cat.Field.Column()}}, examples[cat.Key]...)
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(contentSheet, cell, v); err != nil {
				return err
			}
		}
	}

	if _, err := f.NewSheet("Instructions"); err != nil {
		return err
	}
	instructions := []string{
		"Column Descriptions:",
		"",
		"title - Required. Shown as the item heading (at most 300 characters)",
	}
	if cat.RequiresLink() {
		instructions = append(instructions, "link - Required. Address of the recording, e.g. a YouTube link")
	} else {
		instructions = append(instructions, "content - Required. Full text; simple HTML is flattened in the printed plan")
	}
	instructions = append(instructions, "", "Only the first sheet is imported. Blank rows are skipped.")

	for i, line := range instructions {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue("Instructions", cell, line); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return f.SaveAs(path)
}
