package ingest

import "strings"

// SplitSections splits an authoring document into numbered sections.
//
// A section heading has the exact shape "## <digit>) ..." at the start of a
// line. The section body runs from the line after the heading to the next
// such heading (or end of document), trimmed. Sections are keyed by the
// captured digit, not by position: out-of-order or missing digits are legal,
// and absence of a key means "section not present" to downstream extractors.
func SplitSections(doc string) map[string]string {
	sections := make(map[string]string)
	lines := strings.Split(doc, "\n")

	key := ""
	var body []string
	flush := func() {
		if key != "" {
			sections[key] = strings.TrimSpace(strings.Join(body, "\n"))
		}
	}

	for _, raw := range lines {
		line := strings.TrimSuffix(raw, "\r")
		if k, ok := sectionHeadingKey(line); ok {
			flush()
			key = k
			body = nil
			continue
		}
		if key != "" {
			body = append(body, line)
		}
	}
	flush()

	return sections
}

// sectionHeadingKey matches "## <digit>)" at the start of a line and
// returns the digit.
func sectionHeadingKey(line string) (string, bool) {
	if len(line) < 5 || !strings.HasPrefix(line, "## ") {
		return "", false
	}
	if line[3] < '0' || line[3] > '9' || line[4] != ')' {
		return "", false
	}
	return line[3:4], true
}
