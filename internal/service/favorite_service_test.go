package service

import (
	"context"
	"errors"
	"testing"
)

func TestFavoriteServiceIsIdempotent(t *testing.T) {
	gdb := setupArticleServiceTestDB(t)
	articles := newTestArticleService(gdb)
	favorites := NewFavoriteService(gdb)
	seedPerson(t, gdb, "author")
	seedPerson(t, gdb, "fan")
	ctx := context.Background()

	article, err := articles.Create(ctx, "author", publishedInput("Lovely"), false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	slug := *article.Slug

	for i := 0; i < 2; i++ {
		view, err := favorites.Favorite(ctx, slug, "fan")
		if err != nil {
			t.Fatalf("favorite #%d: %v", i, err)
		}
		if !view.Favorited || view.FavoritesCount != 1 {
			t.Fatalf("favorite #%d: favorited=%v count=%d", i, view.Favorited, view.FavoritesCount)
		}
	}

	for i := 0; i < 2; i++ {
		view, err := favorites.Unfavorite(ctx, slug, "fan")
		if err != nil {
			t.Fatalf("unfavorite #%d: %v", i, err)
		}
		if view.Favorited || view.FavoritesCount != 0 {
			t.Fatalf("unfavorite #%d: favorited=%v count=%d", i, view.Favorited, view.FavoritesCount)
		}
	}

	if _, err := favorites.Favorite(ctx, slug, ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := favorites.Favorite(ctx, "missing", "fan"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
