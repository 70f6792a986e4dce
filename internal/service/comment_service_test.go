package service

import (
	"context"
	"errors"
	"testing"
)

func TestCommentServiceLifecycle(t *testing.T) {
	gdb := setupArticleServiceTestDB(t)
	articles := newTestArticleService(gdb)
	comments := NewCommentService(gdb)
	seedPerson(t, gdb, "author")
	seedPerson(t, gdb, "reader")
	ctx := context.Background()

	article, err := articles.Create(ctx, "author", publishedInput("Discussed"), false)
	if err != nil {
		t.Fatalf("create article: %v", err)
	}
	slug := *article.Slug

	if _, err := comments.Add(ctx, slug, "reader", "  "); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := comments.Add(ctx, slug, "", "hi"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := comments.Add(ctx, "missing", "reader", "hi"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	first, err := comments.Add(ctx, slug, "reader", "first!")
	if err != nil {
		t.Fatalf("add first: %v", err)
	}
	if first.Author.Username != "reader" {
		t.Fatalf("unexpected author %q", first.Author.Username)
	}
	if _, err := comments.Add(ctx, slug, "author", "thanks"); err != nil {
		t.Fatalf("add second: %v", err)
	}

	list, err := comments.List(ctx, slug, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Body != "first!" || list[1].Body != "thanks" {
		t.Fatalf("unexpected comments: %+v", list)
	}

	if err := comments.Delete(ctx, slug, first.ID, "author"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := comments.Delete(ctx, slug, first.ID, "reader"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := comments.Delete(ctx, slug, first.ID, "reader"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}

	view, err := articles.Get(ctx, BySlug(slug), "author")
	if err != nil {
		t.Fatalf("get article: %v", err)
	}
	if len(view.Comments) != 1 || view.Comments[0].Body != "thanks" {
		t.Fatalf("expected remaining comment on article view, got %+v", view.Comments)
	}
}

func TestCommentServiceRejectsDrafts(t *testing.T) {
	gdb := setupArticleServiceTestDB(t)
	articles := newTestArticleService(gdb)
	comments := NewCommentService(gdb)
	seedPerson(t, gdb, "author")
	seedPerson(t, gdb, "reader")
	ctx := context.Background()

	article, err := articles.Create(ctx, "author", publishedInput("Later Draft"), false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	slug := *article.Slug
	// 回退为草稿，模拟带旧 slug 的草稿
	if err := gdb.Table("articles").Where("id = ?", article.ID).Update("is_draft", true).Error; err != nil {
		t.Fatalf("revert to draft: %v", err)
	}

	if _, err := comments.Add(ctx, slug, "reader", "sneaky"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found for draft, got %v", err)
	}
	if _, err := comments.List(ctx, slug, "reader"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected forbidden listing, got %v", err)
	}
	if list, err := comments.List(ctx, slug, "author"); err != nil || len(list) != 0 {
		t.Fatalf("author listing: list=%v err=%v", list, err)
	}
}
