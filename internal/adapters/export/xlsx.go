// Package export выгружает ссылки в XLSX.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"bidboard/internal/domain"
)

// SheetName — имя листа с вакансиями.
const SheetName = "BidLinks"

var headers = []string{"Title", "Company", "Category", "Confidence", "Tag", "Created", "URL", "Opened"}

// WriteBidLinksXLSX пишет ссылки в книгу из одного листа. В opened передаются
// уже открытые адреса.
func WriteBidLinksXLSX(w io.Writer, links []domain.BidLink, opened map[string]struct{}) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("переименование листа: %w", err)
	}
	for i, h := range headers {
		if err := setCell(f, i+1, 1, h); err != nil {
			return err
		}
	}
	for r, l := range links {
		row := r + 2
		tag, _ := l.Tag()
		_, isOpened := opened[l.URL]
		values := []any{
			l.Title,
			l.CompanyOrNA(),
			l.Category(),
			l.ConfidenceOrZero(),
			string(tag),
			formatCreated(l.CreatedAt),
			l.URL,
			isOpened,
		}
		for c, v := range values {
			if err := setCell(f, c+1, row, v); err != nil {
				return err
			}
		}
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("закрепление заголовка: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("запись xlsx: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(SheetName, cell, v); err != nil {
		return fmt.Errorf("ячейка %s: %w", cell, err)
	}
	return nil
}

func formatCreated(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}
