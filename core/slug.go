package core

import "strings"

const maxBulletSlugLen = 40

// BulletSlug derives a reasoning-bullet id from its title: lowercase,
// strip everything outside [a-z0-9 -], collapse whitespace runs to single
// hyphens, truncate to 40 characters. The result is deterministic so the
// id never needs to be persisted independently of the title.
func BulletSlug(title string) string {
	lower := strings.ToLower(title)

	var b strings.Builder
	b.Grow(len(lower))
	inSpace := false
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			if inSpace && b.Len() > 0 {
				b.WriteByte('-')
			}
			inSpace = false
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '\r':
			inSpace = true
		}
	}

	slug := b.String()
	if len(slug) > maxBulletSlugLen {
		slug = slug[:maxBulletSlugLen]
	}
	return slug
}

// NormalizeNodeRef canonicalizes a related-question reference to node-id
// form. Authoring templates historically mixed underscore- and
// hyphen-separated slugs; node ids only ever use hyphens, so references are
// normalized once, at write time.
func NormalizeNodeRef(ref string) string {
	return strings.ReplaceAll(strings.TrimSpace(ref), "_", "-")
}
