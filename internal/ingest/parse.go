// Package ingest normalizes heterogeneous uploaded documents (CSV,
// spreadsheet, PDF) into uniform catalog items.
package ingest

import (
	"fmt"

	"officedesk/pkg/domain"
)

// ParseDocument converts raw upload bytes into catalog items according
// to the detected kind. Field-level problems are absorbed during
// normalization; an error here means the document itself is unreadable.
func ParseDocument(kind domain.FileKind, data []byte) ([]Item, error) {
	switch kind {
	case domain.KindCSV:
		rows, err := ReadCSV(data)
		if err != nil {
			return nil, err
		}
		return normalizeTabular(rows), nil
	case domain.KindXLSX:
		rows, err := ReadXLSX(data)
		if err != nil {
			return nil, err
		}
		return normalizeTabular(rows), nil
	case domain.KindPDF:
		lines, err := ExtractLines(data)
		if err != nil {
			return nil, err
		}
		return ItemsFromLines(lines), nil
	default:
		return nil, fmt.Errorf("unsupported file kind %q", kind)
	}
}

func normalizeTabular(rows [][]string) []Item {
	if len(rows) == 0 {
		return nil
	}
	fields := MapHeaders(rows[0])
	return NormalizeRows(fields, rows[1:])
}
