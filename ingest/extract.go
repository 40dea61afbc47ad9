package ingest

import "strings"

// Field extractors for writer-template Markdown sections. Each one is
// tolerant of the field's absence: it returns "" or nil, never an error.
// Values whose trimmed text begins with "<" are template placeholders that
// were never filled in, and are rejected the same as absent values.

// boldLabelRemainder finds a "**Label...**" marker on a line (case-
// insensitive; the label may be a prefix of the bold text, so "Category"
// matches "**Category:**") and returns the text after the closing "**".
func boldLabelRemainder(line, label string) (string, bool) {
	lower := strings.ToLower(line)
	needle := "**" + strings.ToLower(label)
	li := strings.Index(lower, needle)
	if li < 0 {
		return "", false
	}
	rest := line[li+len(needle):]
	ci := strings.Index(rest, "**")
	if ci < 0 {
		return "", false
	}
	return rest[ci+2:], true
}

// extractInlineCode returns the first backtick-quoted token following a
// bold label on the same line. Used for Node ID and Status.
func extractInlineCode(section, label string) string {
	for _, line := range strings.Split(section, "\n") {
		rest, ok := boldLabelRemainder(line, label)
		if !ok {
			continue
		}
		open := strings.IndexByte(rest, '`')
		if open < 0 {
			continue
		}
		closing := strings.IndexByte(rest[open+1:], '`')
		if closing <= 0 {
			continue
		}
		return strings.TrimSpace(rest[open+1 : open+1+closing])
	}
	return ""
}

// extractAfterLabel returns the value of a bold label: the remainder of the
// label's own line if non-empty, otherwise the next non-blank line (cut at
// the first '*' or '#', which starts the next field or heading).
func extractAfterLabel(section, label string) string {
	lines := strings.Split(section, "\n")
	for i, line := range lines {
		rest, ok := boldLabelRemainder(line, label)
		if !ok {
			continue
		}
		inline := strings.TrimLeft(rest, ": \t")
		if strings.TrimSpace(inline) != "" {
			return cleanFieldValue(inline)
		}
		for j := i + 1; j < len(lines); j++ {
			next := lines[j]
			if strings.TrimSpace(next) == "" {
				continue
			}
			stop := strings.IndexAny(next, "*#")
			if stop == 0 {
				// The next field or heading starts here: value absent.
				return ""
			}
			if stop > 0 {
				next = next[:stop]
			}
			return cleanFieldValue(next)
		}
		return ""
	}
	return ""
}

// extractBulletList returns the "- " bullet lines immediately following a
// bold label, stripped and filtered. Collection stops at the first
// non-bullet line (including a blank one).
func extractBulletList(section, label string) []string {
	lines := strings.Split(section, "\n")
	for i, line := range lines {
		if _, ok := boldLabelRemainder(line, label); !ok {
			continue
		}
		return collectBullets(lines[i+1:])
	}
	return nil
}

// extractBulletListUnderHeading is the same bullet consumption anchored to
// a "### Heading" marker instead of a bold label.
func extractBulletListUnderHeading(section, heading string) []string {
	lines := strings.Split(section, "\n")
	needle := "### " + strings.ToLower(heading)
	for i, line := range lines {
		if strings.HasPrefix(strings.ToLower(line), needle) {
			return collectBullets(lines[i+1:])
		}
	}
	return nil
}

func collectBullets(lines []string) []string {
	var out []string
	for _, line := range lines {
		if !strings.HasPrefix(line, "- ") || len(line) <= 2 {
			break
		}
		v := strings.TrimSpace(line[2:])
		if v == "" || strings.HasPrefix(v, "<") {
			continue
		}
		out = append(out, v)
	}
	return out
}

// cleanFieldValue trims a raw extracted value and rejects placeholders.
func cleanFieldValue(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "<") {
		return ""
	}
	return v
}

// stripBackticks removes a surrounding backtick pair from a value, as used
// by related-question references written as `node-id`.
func stripBackticks(v string) string {
	v = strings.TrimPrefix(v, "`")
	v = strings.TrimSuffix(v, "`")
	return strings.TrimSpace(v)
}
