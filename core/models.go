package core

import (
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Node is the canonical unit of content: a question plus layered answer
// content. Nodes are authored via forms, Markdown templates, or CSV bulk
// import, and found through free-text/category search.
type Node struct {
	// Id uniquely identifies the node. Immutable once created.
	// Must match ^[a-z0-9-]+$.
	Id string `json:"id"`

	// Title is the question itself. Required.
	Title string `json:"title"`

	// Category is an optional grouping label.
	Category string `json:"category,omitempty"`

	// Keywords is optional free text (comma-ish, not strictly parsed).
	Keywords string `json:"keywords,omitempty"`

	// AltPhrasings are alternative phrasings of the question, in order.
	AltPhrasings []string `json:"alt_phrasings,omitempty"`

	// Layer1 is the short direct answer.
	Layer1 string `json:"layer1,omitempty"`

	// Layer2 holds the structured reasoning bullets.
	Layer2 Layer2 `json:"layer2_json,omitzero"`

	// Layer3 holds resources, sources, related questions, and editorial notes.
	Layer3 Layer3 `json:"layer3_json,omitzero"`

	Published bool `json:"published"`

	// SearchBlob is derived from title, layer1, keywords, and alt phrasings.
	// It is recomputed on every write and never editable on its own.
	SearchBlob string `json:"search_blob,omitempty"`

	// Tier and SpineGates are graph-visualization metadata carried through
	// storage untouched; nothing in the ingestion/ranking core reads them.
	Tier       int      `json:"tier,omitempty"`
	SpineGates []string `json:"spine_gates,omitempty"`

	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// Layer2 is the structured reasoning layer.
type Layer2 struct {
	Reasoning []ReasoningBullet `json:"reasoning,omitempty"`
}

// IsZero reports whether the layer has no content. Used by the omitzero
// JSON option so empty layers serialize as absent.
func (l Layer2) IsZero() bool { return len(l.Reasoning) == 0 }

// ReasoningBullet is one step of the layer-2 reasoning chain.
// Its Id is a deterministic slug of its Title (see BulletSlug) and is
// recomputed whenever the title changes.
type ReasoningBullet struct {
	Id       string `json:"id"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Detail   string `json:"detail"`
	VideoURL string `json:"video_url,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// Layer3 is the next-steps layer: further reading, citations, and links to
// related question nodes.
type Layer3 struct {
	Resources        []Resource        `json:"resources,omitempty"`
	Sources          []Source          `json:"sources,omitempty"`
	RelatedQuestions []string          `json:"related_questions,omitempty"`
	EditorialNotes   map[string]string `json:"editorial_notes,omitempty"`
}

// IsZero reports whether the layer has no content.
func (l Layer3) IsZero() bool {
	return len(l.Resources) == 0 && len(l.Sources) == 0 &&
		len(l.RelatedQuestions) == 0 && len(l.EditorialNotes) == 0
}

// Resource is a "Dig Deeper" entry.
type Resource struct {
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

// Source is a citation entry.
type Source struct {
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
}

// Fingerprint returns a 64-bit content fingerprint of the node's authored
// fields using BLAKE2b hashing. Identical content produces identical
// fingerprints. Storage bookkeeping fields (timestamps, search blob) are
// excluded so a rewrite of derived state does not read as a content change.
func Fingerprint(n *Node) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	for _, s := range []string{n.Id, n.Title, n.Category, n.Keywords, n.Layer1} {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	for _, p := range n.AltPhrasings {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	h.Write([]byte{0})
	l2, _ := json.Marshal(n.Layer2)
	h.Write(l2)
	l3, _ := json.Marshal(n.Layer3)
	h.Write(l3)
	if n.Published {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}
