package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "punctuation", title: "My First Post!!", want: "my-first-post"},
		{name: "surrounding spaces", title: "  Hello, World  ", want: "hello-world"},
		{name: "accents folded", title: "Café au lait", want: "cafe-au-lait"},
		{name: "digits kept", title: "Go 1.22 Release", want: "go-1-22-release"},
		{name: "upper case", title: "ALL CAPS", want: "all-caps"},
		{name: "runs collapse", title: "a -- b __ c", want: "a-b-c"},
		{name: "only symbols", title: "---!!!", want: ""},
		{name: "empty", title: "", want: ""},
		{name: "non latin dropped", title: "Go 语言 入门", want: "go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateSlug(tt.title)
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestGenerateSlugIsURLSafe(t *testing.T) {
	titles := []string{
		"Hello", "  --leading and trailing--  ", "Ünïcödé Çhâràctèrs", "tab\tand\nnewline",
		"emoji 🚀 launch", "100% done?", "x", "MiXeD_case-Title", "slash/and\\backslash",
	}

	for _, title := range titles {
		slug := GenerateSlug(title)
		if slug == "" {
			t.Fatalf("expected non-empty slug for %q", title)
		}
		if !slugPattern.MatchString(slug) {
			t.Fatalf("slug %q for %q is not url safe", slug, title)
		}
	}
}

func existsIn(taken map[string]uint) SlugExistsFunc {
	return func(ctx context.Context, slug string, excludeID uint) (bool, error) {
		owner, ok := taken[slug]
		if !ok {
			return false, nil
		}
		return owner != excludeID, nil
	}
}

func TestResolveUniqueSlug(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		candidate string
		excludeID uint
		taken     map[string]uint
		want      string
	}{
		{name: "free", candidate: "my-first-post", taken: map[string]uint{}, want: "my-first-post"},
		{
			name:      "first suffix",
			candidate: "my-first-post",
			taken:     map[string]uint{"my-first-post": 1},
			want:      "my-first-post-1",
		},
		{
			name:      "skips taken suffixes",
			candidate: "my-first-post",
			taken:     map[string]uint{"my-first-post": 1, "my-first-post-1": 2},
			want:      "my-first-post-2",
		},
		{
			name:      "own slug is reusable",
			candidate: "my-first-post",
			excludeID: 7,
			taken:     map[string]uint{"my-first-post": 7},
			want:      "my-first-post",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveUniqueSlug(ctx, tt.candidate, tt.excludeID, existsIn(tt.taken))
			if err != nil {
				t.Fatalf("resolve slug: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
			if _, ok := tt.taken[got]; ok && tt.taken[got] != tt.excludeID {
				t.Fatalf("resolved slug %q is already taken", got)
			}
		})
	}
}

func TestResolveUniqueSlugPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := ResolveUniqueSlug(context.Background(), "slug", 0, func(context.Context, string, uint) (bool, error) {
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected lookup error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = ResolveUniqueSlug(ctx, "slug", 0, existsIn(map[string]uint{}))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
