package ingest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openquill/answerbase/core"
)

// RowResult reports the outcome of one CSV data row. Every non-blank row
// produces exactly one result, in row order, whether it passed or not.
type RowResult struct {
	// Row is the 1-based line position in the file (the header is row 1).
	Row     int
	Id      string
	Title   string
	Success bool
	Error   string
}

// CSVResult is the outcome of a bulk CSV parse. Results carries one entry
// per non-blank data row for reporting; Nodes carries only the rows that
// validated. Callers must refuse to commit any node while HasErrors is true.
type CSVResult struct {
	Nodes     []*core.Node
	Results   []RowResult
	HasErrors bool
}

var requiredColumns = []string{"id", "title"}

// ParseCSVNodes parses CSV text into validated node rows.
//
// The header row must contain at least "id" and "title" (case-insensitive);
// a missing required column fails the whole import with a single
/// header-level result. Data rows are evaluated independently: a failing row
// never aborts the batch, it just records its first failing check.
func ParseCSVNodes(text string) *CSVResult {
	lines := ParseCSVLines(text)
	if len(lines) < 2 {
		return &CSVResult{
			Results: []RowResult{{
				Row: 1, Success: false,
				Error: "CSV must have a header row and at least one data row.",
			}},
			HasErrors: true,
		}
	}

	headers := make([]string, len(lines[0]))
	for i, h := range lines[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var missing []string
	for _, c := range requiredColumns {
		if !contains(headers, c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &CSVResult{
			Results: []RowResult{{
				Row: 1, Success: false,
				Error: "Missing required columns: " + strings.Join(missing, ", "),
			}},
			HasErrors: true,
		}
	}

	col := func(row []string, name string) string {
		for idx, h := range headers {
			if h == name {
				if idx < len(row) {
					return strings.TrimSpace(row[idx])
				}
				return ""
			}
		}
		return ""
	}

	res := &CSVResult{}

	for i := 1; i < len(lines); i++ {
		row := lines[i]
		if blankRow(row) {
			continue
		}

		rowNum := i + 1
		id := col(row, "id")
		title := col(row, "title")

		fail := func(id, title, msg string) {
			res.Results = append(res.Results, RowResult{Row: rowNum, Id: id, Title: title, Error: msg})
		}

		if id == "" {
			fail("", title, `Missing "id".`)
			continue
		}
		if err := core.ValidateNodeID(id); err != nil {
			fail(id, title, "ID must be lowercase letters, numbers, and hyphens only.")
			continue
		}
		if title == "" {
			fail(id, "", `Missing "title".`)
			continue
		}

		altPhrasings, errMsg := parseAltPhrasings(col(row, "alt_phrasings"))
		if errMsg != "" {
			fail(id, title, errMsg)
			continue
		}

		var layer2 core.Layer2
		if raw := col(row, "layer2_json"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &layer2); err != nil {
				fail(id, title, "layer2_json is not valid JSON.")
				continue
			}
		}

		var layer3 core.Layer3
		if raw := col(row, "layer3_json"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &layer3); err != nil {
				fail(id, title, "layer3_json is not valid JSON.")
				continue
			}
		}

		// The draft column is inverted by the authoring contract: only an
		// explicit "false"/"no"/"0" publishes; anything else, including an
		// absent column, stays a draft.
		draftRaw := strings.ToLower(col(row, "draft"))
		published := draftRaw == "false" || draftRaw == "no" || draftRaw == "0"

		node := &core.Node{
			Id:           id,
			Title:        title,
			Category:     col(row, "category"),
			Keywords:     col(row, "keywords"),
			AltPhrasings: altPhrasings,
			Layer1:       col(row, "layer1"),
			Layer2:       layer2,
			Layer3:       layer3,
			Published:    published,
		}
		core.RebuildSearchBlob(node)

		res.Nodes = append(res.Nodes, node)
		res.Results = append(res.Results, RowResult{Row: rowNum, Id: id, Title: title, Success: true})
	}

	for _, r := range res.Results {
		if !r.Success {
			res.HasErrors = true
			break
		}
	}
	return res
}

// parseAltPhrasings decodes the alt_phrasings column. Returns a non-empty
// message on failure, distinguishing malformed JSON from a wrong shape.
func parseAltPhrasings(raw string) ([]string, string) {
	if raw == "" {
		return nil, ""
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, "alt_phrasings is not valid JSON."
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, "alt_phrasings must be a JSON array."
	}
	phrasings := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			phrasings = append(phrasings, s)
		} else {
			phrasings = append(phrasings, fmt.Sprint(e))
		}
	}
	return phrasings, ""
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

// ParseCSVLines tokenizes raw CSV text into rows of fields.
//
// This is a single-pass character state machine with exactly two states
// (inside/outside quotes). It handles quoted fields containing commas and
// newlines, doubled-quote escaping ("" -> "), and CRLF, LF, and bare CR
// line endings. A final row or field with no trailing newline is still
// emitted; entirely empty input produces zero rows.
func ParseCSVLines(text string) [][]string {
	var rows [][]string
	var current []string
	var field []byte
	inQuotes := false

	i := 0
	for i < len(text) {
		ch := text[i]

		if inQuotes {
			if ch == '"' {
				if i+1 < len(text) && text[i+1] == '"' {
					field = append(field, '"')
					i += 2
				} else {
					inQuotes = false
					i++
				}
			} else {
				field = append(field, ch)
				i++
			}
			continue
		}

		switch {
		case ch == '"':
			inQuotes = true
			i++
		case ch == ',':
			current = append(current, string(field))
			field = field[:0]
			i++
		case ch == '\n' || (ch == '\r' && i+1 < len(text) && text[i+1] == '\n'):
			current = append(current, string(field))
			field = field[:0]
			rows = append(rows, current)
			current = nil
			if ch == '\r' {
				i += 2
			} else {
				i++
			}
		case ch == '\r':
			current = append(current, string(field))
			field = field[:0]
			rows = append(rows, current)
			current = nil
			i++
		default:
			field = append(field, ch)
			i++
		}
	}

	// Trailing partial row without a newline.
	if len(field) > 0 || len(current) > 0 {
		current = append(current, string(field))
		rows = append(rows, current)
	}

	return rows
}
