package ingest

import (
	"testing"

	"officedesk/pkg/domain"
)

func TestDetectKind(t *testing.T) {
	tests := []struct {
		filename string
		want     domain.FileKind
	}{
		{"catalog.csv", domain.KindCSV},
		{"Catalog.CSV", domain.KindCSV},
		{"rates.xlsx", domain.KindXLSX},
		{"rates.XLS", domain.KindXLSX},
		{"pricelist.pdf", domain.KindPDF},
		{"archive.2024.csv", domain.KindCSV},
		{"notes.txt", domain.KindUnsupported},
		{"noextension", domain.KindUnsupported},
		{"trailingdot.", domain.KindUnsupported},
		{"", domain.KindUnsupported},
		{".csv", domain.KindCSV},
	}
	for _, tc := range tests {
		if got := DetectKind(tc.filename); got != tc.want {
			t.Errorf("DetectKind(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}
