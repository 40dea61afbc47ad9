package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchBlob(t *testing.T) {
	t.Run("all parts present", func(t *testing.T) {
		blob := SearchBlob("What is gravity?", "A force.", "physics, force", []string{"why do things fall", "gravity basics"})
		assert.Equal(t, "What is gravity? A force. physics, force why do things fall gravity basics", blob)
	})

	t.Run("empty parts omitted", func(t *testing.T) {
		assert.Equal(t, "Title", SearchBlob("Title", "", "", nil))
		assert.Equal(t, "Title kw", SearchBlob("Title", "", "kw", nil))
		assert.Equal(t, "", SearchBlob("", "", "", nil))
	})

	t.Run("idempotent", func(t *testing.T) {
		a := SearchBlob("t", "l1", "k", []string{"p"})
		b := SearchBlob("t", "l1", "k", []string{"p"})
		assert.Equal(t, a, b)
	})

	t.Run("changing any source field changes the blob", func(t *testing.T) {
		base := SearchBlob("t", "l1", "k", []string{"p"})
		assert.NotEqual(t, base, SearchBlob("t2", "l1", "k", []string{"p"}))
		assert.NotEqual(t, base, SearchBlob("t", "l2", "k", []string{"p"}))
		assert.NotEqual(t, base, SearchBlob("t", "l1", "k2", []string{"p"}))
		assert.NotEqual(t, base, SearchBlob("t", "l1", "k", []string{"p2"}))
	})
}

func TestRebuildSearchBlob(t *testing.T) {
	n := &Node{Title: "T", Layer1: "L", Keywords: "K", AltPhrasings: []string{"A", "B"}}
	RebuildSearchBlob(n)
	assert.Equal(t, "T L K A B", n.SearchBlob)

	n.Keywords = ""
	RebuildSearchBlob(n)
	assert.Equal(t, "T L A B", n.SearchBlob)
}

func TestBulletSlug(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Why the sky is blue", "why-the-sky-is-blue"},
		{"Rayleigh Scattering!", "rayleigh-scattering"},
		{"What's   up?", "whats-up"},
		{"already-hyphenated", "already-hyphenated"},
		{"Numbers 1 2 3", "numbers-1-2-3"},
		{"", ""},
		{"!!!", ""},
		{"A very long reasoning bullet title that keeps going and going", "a-very-long-reasoning-bullet-title-that-"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BulletSlug(tt.title), tt.title)
	}
}

func TestBulletSlugDeterministic(t *testing.T) {
	assert.Equal(t, BulletSlug("The First Cause"), BulletSlug("The First Cause"))
}

func TestNormalizeNodeRef(t *testing.T) {
	assert.Equal(t, "what-is-gravity", NormalizeNodeRef("what_is_gravity"))
	assert.Equal(t, "what-is-gravity", NormalizeNodeRef("  what-is-gravity "))
	assert.Equal(t, "a-b-c", NormalizeNodeRef("a_b-c"))
}
