package service

import (
	"sort"
	"strings"

	"github.com/conduit/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagDiff is the minimal change turning an article's tag set into the desired one.
type TagDiff struct {
	ToCreate []string
	ToRemove []string
}

// Empty reports whether applying the diff would change nothing.
func (d TagDiff) Empty() bool {
	return len(d.ToCreate) == 0 && len(d.ToRemove) == 0
}

// Reconcile computes desired minus existing (ToCreate) and existing minus desired (ToRemove).
// Desired names are trimmed; blanks and duplicates are ignored. Output is sorted.
func Reconcile(existing, desired []string) TagDiff {
	want := normalizeTagNames(desired)
	wantSet := make(map[string]struct{}, len(want))
	for _, name := range want {
		wantSet[name] = struct{}{}
	}

	haveSet := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		haveSet[name] = struct{}{}
	}

	var diff TagDiff
	for _, name := range want {
		if _, ok := haveSet[name]; !ok {
			diff.ToCreate = append(diff.ToCreate, name)
		}
	}
	for name := range haveSet {
		if _, ok := wantSet[name]; !ok {
			diff.ToRemove = append(diff.ToRemove, name)
		}
	}
	sort.Strings(diff.ToRemove)
	return diff
}

func normalizeTagNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	result := make([]string, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// applyTagDiff persists diff for articleID inside tx. Tag rows are created or
// reused through the tags primary key, so two edits introducing the same new
// tag never produce two rows for it.
func applyTagDiff(tx *gorm.DB, articleID uint, diff TagDiff) error {
	if len(diff.ToCreate) > 0 {
		tags := make([]db.Tag, 0, len(diff.ToCreate))
		links := make([]db.ArticleTag, 0, len(diff.ToCreate))
		for _, name := range diff.ToCreate {
			tags = append(tags, db.Tag{Name: name})
			links = append(links, db.ArticleTag{ArticleID: articleID, TagName: name})
		}

		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&tags).Error; err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&links).Error; err != nil {
			return err
		}
	}

	if len(diff.ToRemove) > 0 {
		if err := tx.Where("article_id = ? AND tag_name IN ?", articleID, diff.ToRemove).
			Delete(&db.ArticleTag{}).Error; err != nil {
			return err
		}
	}

	return nil
}
