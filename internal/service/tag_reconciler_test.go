package service

import (
	"reflect"
	"sort"
	"testing"

	"github.com/conduit/internal/db"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name       string
		existing   []string
		desired    []string
		wantCreate []string
		wantRemove []string
	}{
		{name: "from empty", existing: nil, desired: []string{"b", "a"}, wantCreate: []string{"a", "b"}},
		{name: "remove all", existing: []string{"a", "b"}, desired: []string{}, wantRemove: []string{"a", "b"}},
		{name: "mixed", existing: []string{"go", "web"}, desired: []string{"go", "db"}, wantCreate: []string{"db"}, wantRemove: []string{"web"}},
		{name: "duplicates and blanks", existing: nil, desired: []string{"go", " go ", "", "  "}, wantCreate: []string{"go"}},
		{name: "unchanged", existing: []string{"a"}, desired: []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff := Reconcile(tt.existing, tt.desired)
			if !reflect.DeepEqual(diff.ToCreate, tt.wantCreate) {
				t.Fatalf("expected create %v, got %v", tt.wantCreate, diff.ToCreate)
			}
			if !reflect.DeepEqual(diff.ToRemove, tt.wantRemove) {
				t.Fatalf("expected remove %v, got %v", tt.wantRemove, diff.ToRemove)
			}
		})
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	existing := []string{"go", "web", "old"}
	desired := []string{"go", "new", "web", "new"}

	diff := Reconcile(existing, desired)

	result := map[string]struct{}{}
	for _, name := range existing {
		result[name] = struct{}{}
	}
	for _, name := range diff.ToRemove {
		delete(result, name)
	}
	for _, name := range diff.ToCreate {
		result[name] = struct{}{}
	}

	applied := make([]string, 0, len(result))
	for name := range result {
		applied = append(applied, name)
	}
	sort.Strings(applied)
	if want := []string{"go", "new", "web"}; !reflect.DeepEqual(applied, want) {
		t.Fatalf("expected %v after reconcile, got %v", want, applied)
	}

	if again := Reconcile(applied, desired); !again.Empty() {
		t.Fatalf("expected empty diff on second pass, got %+v", again)
	}
}

func TestApplyTagDiffReusesTagRows(t *testing.T) {
	gdb := setupArticleServiceTestDB(t)
	author := seedPerson(t, gdb, "tagger")

	first := db.Article{Title: "one", IsDraft: true, AuthorID: author.ID}
	second := db.Article{Title: "two", IsDraft: true, AuthorID: author.ID}
	if err := gdb.Create(&first).Error; err != nil {
		t.Fatalf("create first: %v", err)
	}
	if err := gdb.Create(&second).Error; err != nil {
		t.Fatalf("create second: %v", err)
	}

	if err := applyTagDiff(gdb, first.ID, Reconcile(nil, []string{"shared", "solo"})); err != nil {
		t.Fatalf("apply first diff: %v", err)
	}
	if err := applyTagDiff(gdb, second.ID, Reconcile(nil, []string{"shared"})); err != nil {
		t.Fatalf("apply second diff: %v", err)
	}

	var tagCount int64
	if err := gdb.Model(&db.Tag{}).Where("name = ?", "shared").Count(&tagCount).Error; err != nil {
		t.Fatalf("count tags: %v", err)
	}
	if tagCount != 1 {
		t.Fatalf("expected a single shared tag row, got %d", tagCount)
	}

	if err := applyTagDiff(gdb, first.ID, Reconcile([]string{"shared", "solo"}, []string{"shared"})); err != nil {
		t.Fatalf("apply removal: %v", err)
	}

	var links int64
	if err := gdb.Model(&db.ArticleTag{}).Where("article_id = ?", first.ID).Count(&links).Error; err != nil {
		t.Fatalf("count links: %v", err)
	}
	if links != 1 {
		t.Fatalf("expected 1 link left, got %d", links)
	}

	var solo int64
	if err := gdb.Model(&db.Tag{}).Where("name = ?", "solo").Count(&solo).Error; err != nil {
		t.Fatalf("count solo tag: %v", err)
	}
	if solo != 1 {
		t.Fatalf("expected unlinked tag row to survive, got %d", solo)
	}
}
