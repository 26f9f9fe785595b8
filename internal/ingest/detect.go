package ingest

import (
	"strings"

	"officedesk/pkg/domain"
)

// DetectKind classifies a file by the extension of its declared name.
// The extension is the lower-cased substring after the final dot; file
// content is never inspected, so a mislabeled file surfaces later as a
// parse failure rather than being sniffed here.
func DetectKind(filename string) domain.FileKind {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return domain.KindUnsupported
	}
	switch strings.ToLower(filename[idx+1:]) {
	case "csv":
		return domain.KindCSV
	case "xlsx", "xls":
		return domain.KindXLSX
	case "pdf":
		return domain.KindPDF
	default:
		return domain.KindUnsupported
	}
}
