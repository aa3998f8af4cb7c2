package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

type spreadsheetHandler struct{}

func (spreadsheetHandler) extract(_ context.Context, in Input) (Document, error) {
	data, err := readInput(in)
	if err != nil {
		return Document{}, &ExtractionError{Kind: KindSpreadsheet, Source: in.source(), Err: err}
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Document{}, &ExtractionError{Kind: KindSpreadsheet, Source: in.source(), Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	var sb strings.Builder
	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return Document{}, &ExtractionError{Kind: KindSpreadsheet, Source: in.source(), Err: fmt.Errorf("sheet %s: %w", sheet, err)}
		}
		if len(rows) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("Sheet: ")
		sb.WriteString(sheet)
		for _, row := range rows {
			sb.WriteString("\n")
			sb.WriteString(strings.Join(row, "\t"))
		}
	}

	return Document{
		Text:     normalizeText(sb.String()),
		Source:   in.source(),
		Metadata: map[string]any{"sheets": len(sheets)},
	}, nil
}
