package db

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDBTest(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:db-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return gdb
}

func TestDSN(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "conduit.db", expected: "conduit.db?_busy_timeout=5000&_txlock=immediate&_foreign_keys=on"},
		{input: "data/app.db?cache=shared", expected: "data/app.db?cache=shared"},
		{input: "file::memory:", expected: "file::memory:"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := DSN(tt.input); got != tt.expected {
				t.Fatalf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSlugUniqueIndexAllowsMultipleDrafts(t *testing.T) {
	gdb := setupDBTest(t)

	author := Person{Username: "author", Email: "author@example.com", Password: "hashed"}
	if err := gdb.Create(&author).Error; err != nil {
		t.Fatalf("create person: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := gdb.Create(&Article{Title: "draft", IsDraft: true, AuthorID: author.ID}).Error; err != nil {
			t.Fatalf("create draft %d: %v", i, err)
		}
	}

	slug := "taken"
	if err := gdb.Create(&Article{Slug: &slug, Title: "one", AuthorID: author.ID}).Error; err != nil {
		t.Fatalf("create published: %v", err)
	}
	duplicate := "taken"
	if err := gdb.Create(&Article{Slug: &duplicate, Title: "two", AuthorID: author.ID}).Error; err == nil {
		t.Fatal("expected unique index violation for duplicate slug")
	}
}

func TestMigrateNullsEmptySlugs(t *testing.T) {
	gdb := setupDBTest(t)

	author := Person{Username: "legacy", Email: "legacy@example.com", Password: "hashed"}
	if err := gdb.Create(&author).Error; err != nil {
		t.Fatalf("create person: %v", err)
	}
	empty := ""
	if err := gdb.Create(&Article{Slug: &empty, Title: "legacy draft", IsDraft: true, AuthorID: author.ID}).Error; err != nil {
		t.Fatalf("create legacy draft: %v", err)
	}

	if err := Migrate(gdb); err != nil {
		t.Fatalf("re-migrate: %v", err)
	}

	var article Article
	if err := gdb.First(&article).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if article.Slug != nil {
		t.Fatalf("expected empty slug to become NULL, got %q", *article.Slug)
	}
}

func TestEnsurePerson(t *testing.T) {
	gdb := setupDBTest(t)

	if err := EnsurePerson(gdb, "", "", "secret"); err != nil {
		t.Fatalf("expected no-op for empty username: %v", err)
	}
	if err := EnsurePerson(gdb, " jake ", "", "secret"); err != nil {
		t.Fatalf("ensure person: %v", err)
	}
	if err := EnsurePerson(gdb, "jake", "", "other"); err != nil {
		t.Fatalf("ensure existing person: %v", err)
	}

	var people []Person
	if err := gdb.Find(&people).Error; err != nil {
		t.Fatalf("list persons: %v", err)
	}
	if len(people) != 1 {
		t.Fatalf("expected a single person, got %d", len(people))
	}
	person := people[0]
	if person.Username != "jake" || person.Email != "jake@conduit.local" {
		t.Fatalf("unexpected person: %+v", person)
	}
	if !person.CheckPassword("secret") || person.CheckPassword("other") {
		t.Fatalf("expected password to stay the first one")
	}
}
