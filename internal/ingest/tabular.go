package ingest

import (
	"strconv"
	"strings"
)

// MaxDescriptionLen is the longest description persisted per record.
// Longer values are truncated, never rejected.
const MaxDescriptionLen = 512

// Item is one candidate catalog record distilled from an upload.
// Description is always non-empty; the remaining fields are best-effort.
type Item struct {
	Description string
	Make        string
	Brand       string
	CatNo       string
	Rate        *float64
}

// FieldMap resolves each semantic target to the source column index, or
// -1 when no header matched. The mapping is computed once per dataset.
type FieldMap struct {
	Description int
	Make        int
	Brand       int
	CatNo       int
	Rate        int
}

// Synonyms for each semantic target, in priority order. The first
// synonym present among the dataset's headers wins.
var (
	descriptionSynonyms = []string{"item_description", "description", "item", "name", "product"}
	makeSynonyms        = []string{"make", "manufacturer", "mfg", "brand"}
	brandSynonyms       = []string{"brand", "make"}
	catNoSynonyms       = []string{"cat_no", "catalog", "catalog_no", "sku", "code", "part", "part_no"}
	rateSynonyms        = []string{"rate", "price", "amount", "value", "mrp"}
)

// MapHeaders builds the field-to-column mapping for a header row.
// Matching is case-insensitive and whitespace-trimmed; on duplicate
// headers the first occurrence wins.
func MapHeaders(headers []string) FieldMap {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}
	return FieldMap{
		Description: matchSynonym(index, descriptionSynonyms),
		Make:        matchSynonym(index, makeSynonyms),
		Brand:       matchSynonym(index, brandSynonyms),
		CatNo:       matchSynonym(index, catNoSynonyms),
		Rate:        matchSynonym(index, rateSynonyms),
	}
}

func matchSynonym(index map[string]int, synonyms []string) int {
	for _, s := range synonyms {
		if col, ok := index[s]; ok {
			return col
		}
	}
	return -1
}

// NormalizeRows converts data rows into items using a precomputed field
// map. Rows with a blank description are skipped; a cell that fails to
// parse only blanks its own field, never the row.
func NormalizeRows(fields FieldMap, rows [][]string) []Item {
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		desc := strings.TrimSpace(cell(row, fields.Description))
		if desc == "" {
			continue
		}
		items = append(items, Item{
			Description: TruncateDescription(desc),
			Make:        strings.TrimSpace(cell(row, fields.Make)),
			Brand:       strings.TrimSpace(cell(row, fields.Brand)),
			CatNo:       strings.TrimSpace(cell(row, fields.CatNo)),
			Rate:        parseRate(cell(row, fields.Rate)),
		})
	}
	return items
}

// ItemsFromLines wraps extracted text lines as description-only items.
func ItemsFromLines(lines []string) []Item {
	items := make([]Item, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		items = append(items, Item{Description: TruncateDescription(line)})
	}
	return items
}

// TruncateDescription clamps a description to MaxDescriptionLen characters.
func TruncateDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxDescriptionLen {
		return s
	}
	return string(runes[:MaxDescriptionLen])
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// parseRate treats any unparseable value ("N/A", "-", free text) as an
// absent rate rather than an error.
func parseRate(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
