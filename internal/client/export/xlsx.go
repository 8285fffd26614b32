// Package export writes the displayed listing to a spreadsheet.
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/dmitrijs2005/recipes/internal/client/models"
)

const sheet = "Rezepte"

var header = []any{"ID", "Titel", "Beschreibung", "Gesamtzeit (Min)", "Portionen", "Bewertung", "Favorit"}

// WriteXLSX writes one row per recipe below a title row and a header row.
func WriteXLSX(w io.Writer, title string, recipes []models.RecipeSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}
	if err := sw.SetRow("A1", []any{title}); err != nil {
		return err
	}
	if err := sw.SetRow("A2", header); err != nil {
		return err
	}
	for i, r := range recipes {
		row := []any{r.ID, r.Title, r.Description, optional(r.TotalMinutes), optional(r.Portions), r.AvgRating, r.IsFavorite}
		cell, _ := excelize.CoordinatesToCellName(1, i+3)
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// SaveXLSX writes the spreadsheet to path, replacing any existing file.
func SaveXLSX(path, title string, recipes []models.RecipeSummary) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteXLSX(out, title, recipes); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func optional(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}
