package ingest

import (
	"strings"

	"github.com/openquill/answerbase/core"
)

// parseReasoning parses a Layer 2 section into reasoning bullets.
//
// The section splits into blocks on "#### " markers; the marker line is the
// bullet title. Within a block, Summary and Detail are windowed scans that
// stop at the next recognized label, a "---" rule, or the next "####"
// block; Video and Image take the first http(s) URL after their label.
// A block with neither summary nor detail is silently dropped. Bullet ids
// are the deterministic slug of the title.
func parseReasoning(section string) []core.ReasoningBullet {
	var bullets []core.ReasoningBullet

	for _, block := range splitBulletBlocks(section) {
		title := strings.TrimSpace(block.title)
		if title == "" || strings.HasPrefix(title, "#") {
			continue
		}

		summary := labelWindow(block.body, "Summary", []string{"**detail", "**video", "**image", "\n---", "\n####"})
		detail := labelWindow(block.body, "Detail", []string{"**video", "**image", "\n---", "\n####"})
		videoURL := labelURL(block.body, "Video")
		imageURL := labelURL(block.body, "Image")

		if summary == "" && detail == "" {
			continue
		}

		bullets = append(bullets, core.ReasoningBullet{
			Id:       core.BulletSlug(title),
			Title:    title,
			Summary:  summary,
			Detail:   detail,
			VideoURL: videoURL,
			ImageURL: imageURL,
		})
	}

	return bullets
}

type bulletBlock struct {
	title string
	body  string
}

// splitBulletBlocks cuts a section on lines starting "#### ". Text before
// the first marker forms a block whose title is its first line, matching
// how a stray preamble is handled: it only survives if it happens to carry
// summary/detail content under a plain-text first line.
func splitBulletBlocks(section string) []bulletBlock {
	lines := strings.Split(section, "\n")
	var blocks []bulletBlock

	cur := -1 // index into blocks; -1 while inside the preamble
	var pre []string
	var body []string

	flush := func() {
		if cur >= 0 {
			blocks[cur].body = strings.Join(body, "\n")
		} else if len(pre) > 0 {
			blocks = append(blocks, bulletBlock{
				title: pre[0],
				body:  strings.Join(pre[1:], "\n"),
			})
			// Re-slot: the preamble block was appended before any marker
			// block, so subsequent flushes index past it.
		}
	}

	for _, line := range lines {
		if rest, ok := bulletMarker(line); ok {
			flush()
			blocks = append(blocks, bulletBlock{title: rest})
			cur = len(blocks) - 1
			body = nil
			continue
		}
		if cur >= 0 {
			body = append(body, line)
		} else {
			pre = append(pre, line)
		}
	}
	flush()

	return blocks
}

func bulletMarker(line string) (string, bool) {
	if !strings.HasPrefix(line, "####") {
		return "", false
	}
	rest := line[4:]
	if rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

// labelWindow extracts the text between a bold label and the earliest of
// the stop markers (matched case-insensitively), trimmed. The explicit stop
// set is what makes "stop at the next known label" testable in isolation.
func labelWindow(body, label string, stops []string) string {
	rest, ok := findBoldLabel(body, label)
	if !ok {
		return ""
	}
	lower := strings.ToLower(rest)
	end := len(rest)
	for _, stop := range stops {
		if idx := strings.Index(lower, stop); idx >= 0 && idx < end {
			end = idx
		}
	}
	seg := strings.TrimLeft(rest[:end], ": \t\r\n")
	return strings.TrimSpace(seg)
}

// labelURL extracts an http(s) URL immediately following a bold label.
func labelURL(body, label string) string {
	rest, ok := findBoldLabel(body, label)
	if !ok {
		return ""
	}
	rest = strings.TrimLeft(rest, ": \t\r\n")
	if end := strings.IndexAny(rest, " \t\r\n"); end >= 0 {
		rest = rest[:end]
	}
	if !strings.HasPrefix(rest, "http://") && !strings.HasPrefix(rest, "https://") {
		return ""
	}
	return rest
}

// findBoldLabel locates "**Label...**" anywhere in a multi-line body and
// returns the text after the closing "**".
func findBoldLabel(body, label string) (string, bool) {
	lower := strings.ToLower(body)
	needle := "**" + strings.ToLower(label)
	li := strings.Index(lower, needle)
	if li < 0 {
		return "", false
	}
	rest := body[li+len(needle):]
	ci := strings.Index(rest, "**")
	if ci < 0 {
		return "", false
	}
	return rest[ci+2:], true
}

// subsectionWindow returns the body of a "### Heading" sub-section, bounded
// by the next "###" heading, a "---" rule, or end of text.
func subsectionWindow(section, heading string) (string, bool) {
	lower := strings.ToLower(section)
	needle := "### " + strings.ToLower(heading)
	li := strings.Index(lower, needle)
	if li < 0 {
		return "", false
	}
	rest := section[li:]
	nl := strings.Index(rest, "\n")
	if nl < 0 {
		return "", true
	}
	rest = rest[nl+1:]

	end := len(rest)
	for _, stop := range []string{"\n###", "\n---"} {
		if idx := strings.Index(rest, stop); idx >= 0 && idx < end {
			end = idx
		}
	}
	return rest[:end], true
}

// parseDigDeeper parses the "### Dig Deeper" sub-section. Each bullet has
// the shape "- **Title** — description"; the em-dash separator is optional
// and its absence means no description.
func parseDigDeeper(section string) []core.Resource {
	window, ok := subsectionWindow(section, "Dig Deeper")
	if !ok {
		return nil
	}

	var items []core.Resource
	for _, line := range strings.Split(window, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "- **") {
			continue
		}
		rest := line[4:]
		closing := strings.Index(rest, "**")
		if closing < 0 {
			continue
		}
		title := strings.TrimSpace(rest[:closing])
		if title == "" || strings.HasPrefix(title, "<") {
			continue
		}
		desc := strings.TrimSpace(rest[closing+2:])
		desc = strings.TrimSpace(strings.TrimPrefix(desc, "—"))
		items = append(items, core.Resource{Title: title, Description: desc})
	}
	return items
}

// parseSources parses the "### Sources" sub-section. Each line is
// "Title — description" with an optional leading bullet marker; absence of
// the em-dash means no description.
func parseSources(section string) []core.Source {
	window, ok := subsectionWindow(section, "Sources")
	if !ok {
		return nil
	}

	var items []core.Source
	for _, line := range strings.Split(window, "\n") {
		v := strings.TrimSpace(strings.TrimPrefix(line, "- "))
		if v == "" || strings.HasPrefix(v, "<") {
			continue
		}
		if dash := strings.Index(v, "—"); dash >= 0 {
			items = append(items, core.Source{
				Title:       strings.TrimSpace(v[:dash]),
				Description: strings.TrimSpace(v[dash+len("—"):]),
			})
		} else {
			items = append(items, core.Source{Title: v})
		}
	}
	return items
}

// parseEditorialNotes parses section 4: repeated "**Key**" labels each
// followed by a bullet list, joined with "; " into one note per key. Keys
// whose joined value is empty or a placeholder are omitted.
func parseEditorialNotes(section string) map[string]string {
	notes := make(map[string]string)
	lines := strings.Split(section, "\n")

	i := 0
	for i < len(lines) {
		key, ok := firstBoldSpan(lines[i])
		if !ok {
			i++
			continue
		}

		j := i + 1
		var vals []string
		for j < len(lines) && strings.HasPrefix(lines[j], "- ") && len(lines[j]) > 2 {
			if v := strings.TrimSpace(lines[j][2:]); v != "" {
				vals = append(vals, v)
			}
			j++
		}

		joined := strings.Join(vals, "; ")
		if joined != "" && !strings.HasPrefix(joined, "<") {
			notes[strings.TrimSuffix(key, ":")] = joined
		}
		i = j
	}

	if len(notes) == 0 {
		return nil
	}
	return notes
}

func firstBoldSpan(line string) (string, bool) {
	open := strings.Index(line, "**")
	if open < 0 {
		return "", false
	}
	rest := line[open+2:]
	closing := strings.Index(rest, "**")
	if closing <= 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:closing]), true
}
