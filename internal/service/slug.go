package service

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fallbackSlug is used when a title has no letters or digits left after normalisation.
const fallbackSlug = "article"

// SlugExistsFunc reports whether slug is taken by an article other than excludeID.
type SlugExistsFunc func(ctx context.Context, slug string, excludeID uint) (bool, error)

// GenerateSlug derives a lowercase, hyphenated, URL-safe slug from title.
// Accented latin letters are folded to their base letter ("Café" -> "cafe").
func GenerateSlug(title string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), title)
	if err != nil {
		folded = title
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// ResolveUniqueSlug returns candidate when it is free, otherwise the first free
// candidate-N for N = 1, 2, ... . The check-then-use is only safe when exists
// and the subsequent write share one transaction.
func ResolveUniqueSlug(ctx context.Context, candidate string, excludeID uint, exists SlugExistsFunc) (string, error) {
	slug := candidate
	for suffix := 1; ; suffix++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		taken, err := exists(ctx, slug, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = candidate + "-" + strconv.Itoa(suffix)
	}
}

func slugCandidate(title string) string {
	if slug := GenerateSlug(title); slug != "" {
		return slug
	}
	return fallbackSlug
}
