package core

import "strings"

// SearchBlob builds the denormalized search string for a node from its four
// source fields: title, layer1, keywords, and the joined alt phrasings.
// Empty parts are omitted; the rest are joined with single spaces. The blob
// must be rebuilt whenever any source field changes — callers never edit it
// directly.
func SearchBlob(title, layer1, keywords string, altPhrasings []string) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{title, layer1, keywords, strings.Join(altPhrasings, " ")} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// RebuildSearchBlob recomputes and stores the node's search blob from its
// current source fields.
func RebuildSearchBlob(n *Node) {
	n.SearchBlob = SearchBlob(n.Title, n.Layer1, n.Keywords, n.AltPhrasings)
}
