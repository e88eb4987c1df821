package service

import (
	"time"

	"github.com/xuri/excelize/v2"

	"library-backend/internal/domains/book/model"
)

const exportSheetName = "Books"

var exportHeaders = []string{
	"ID",
	"Title",
	"Author",
	"Published Year",
	"ISBN",
	"Copies",
	"Description",
	"Created At",
	"Updated At",
}

func buildBooksExcelFile(books []model.Book) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		_ = f.Close()
		return nil, err
	}

	for colIdx, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		if err := f.SetCellValue(exportSheetName, cell, header); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		lastCol, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(exportSheetName, "A1", lastCol, headerStyle)
	}

	for i, b := range books {
		row := []interface{}{
			b.ID.String(),
			b.Title,
			b.Author,
			intOrEmpty(b.PublishedYear),
			stringOrEmpty(b.ISBN),
			b.Copies,
			stringOrEmpty(b.Description),
			b.CreatedAt.UTC().Format(time.RFC3339),
			b.UpdatedAt.UTC().Format(time.RFC3339),
		}

		start, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheetName, start, &row); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	return f, nil
}

func intOrEmpty(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
