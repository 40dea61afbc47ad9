package ingest

import (
	"strings"

	"github.com/openquill/answerbase/core"
)

// SerializeNodeMarkdown renders a node back into the writer-template
// document format understood by ParseNodeMarkdown, so an exported document
// re-imports to an equivalent node.
func SerializeNodeMarkdown(n *core.Node) string {
	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	line("## 0) Node Metadata")
	line("**Node ID:** `" + n.Id + "`")
	line("**Title (Question):**")
	line(n.Title)
	if n.Category != "" {
		line("**Category:** " + n.Category)
	}
	if keywords := splitKeywords(n.Keywords); len(keywords) > 0 {
		line("**Keywords:**")
		for _, k := range keywords {
			line("- " + k)
		}
	}
	if phrasings := nonBlank(n.AltPhrasings); len(phrasings) > 0 {
		line("**Alt Phrasings:**")
		for _, p := range phrasings {
			line("- " + p)
		}
	}
	if n.Published {
		line("**Status:** `published`")
	} else {
		line("**Status:** `draft`")
	}
	related := nonBlank(n.Layer3.RelatedQuestions)
	if len(related) > 0 {
		line("**Related Questions:**")
		for _, q := range related {
			line("- `" + q + "`")
		}
	}
	line("")

	line("## 1) Layer 1 — Quick Answer")
	if n.Layer1 != "" {
		line(n.Layer1)
	}
	line("")

	line("## 2) Layer 2 — Reasoning")
	for _, bullet := range n.Layer2.Reasoning {
		if strings.TrimSpace(bullet.Title) == "" {
			continue
		}
		line("#### " + bullet.Title)
		line("**Summary:**")
		line(bullet.Summary)
		line("**Detail:**")
		line(bullet.Detail)
		if img := strings.TrimSpace(bullet.ImageURL); img != "" {
			line("**Image:** " + img)
		}
		if vid := strings.TrimSpace(bullet.VideoURL); vid != "" {
			line("**Video:** " + vid)
		}
		line("")
	}

	line("## 3) Layer 3 — Next Steps")
	if resources := nonBlankResources(n.Layer3.Resources); len(resources) > 0 {
		line("### Dig Deeper")
		for _, r := range resources {
			entry := "- **" + strings.TrimSpace(r.Title) + "**"
			if desc := strings.TrimSpace(r.Description); desc != "" {
				entry += " — " + desc
			}
			line(entry)
		}
	}
	if sources := nonBlankSources(n.Layer3.Sources); len(sources) > 0 {
		line("### Sources")
		for _, s := range sources {
			entry := "- " + strings.TrimSpace(s.Title)
			if desc := strings.TrimSpace(s.Description); desc != "" {
				entry += " — " + desc
			}
			line(entry)
		}
	}
	if len(related) > 0 {
		line("### Related Questions")
		for _, q := range related {
			line("- `" + q + "`")
		}
	}
	line("")

	return b.String()
}

func splitKeywords(keywords string) []string {
	var out []string
	for _, k := range strings.Split(keywords, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func nonBlank(ss []string) []string {
	var out []string
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func nonBlankResources(rs []core.Resource) []core.Resource {
	var out []core.Resource
	for _, r := range rs {
		if strings.TrimSpace(r.Title) != "" {
			out = append(out, r)
		}
	}
	return out
}

func nonBlankSources(ss []core.Source) []core.Source {
	var out []core.Source
	for _, s := range ss {
		if strings.TrimSpace(s.Title) != "" {
			out = append(out, s)
		}
	}
	return out
}
