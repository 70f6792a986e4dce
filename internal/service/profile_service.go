package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/conduit/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileService 是作者目录：按用户名查找账号，并维护关注关系
type ProfileService struct {
	db *gorm.DB
}

// NewProfileService 构造 ProfileService
func NewProfileService(gdb *gorm.DB) *ProfileService {
	return &ProfileService{db: gdb}
}

// FindByUsername 根据用户名查找账号
func (s *ProfileService) FindByUsername(ctx context.Context, username string) (*db.Person, error) {
	return findPerson(s.db.WithContext(ctx), username)
}

// Authenticate 校验用户名与密码，成功时返回账号
func (s *ProfileService) Authenticate(ctx context.Context, username, password string) (*db.Person, error) {
	person, err := findPerson(s.db.WithContext(ctx), username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrAuthRequired
		}
		return nil, err
	}
	if !person.CheckPassword(password) {
		return nil, ErrAuthRequired
	}
	return person, nil
}

// Get 返回用户资料；viewer 为空时 Following 恒为 false
func (s *ProfileService) Get(ctx context.Context, username, viewer string) (*ProfileView, error) {
	gdb := s.db.WithContext(ctx)
	person, err := findPerson(gdb, username)
	if err != nil {
		return nil, err
	}

	viewerID, err := resolveViewerID(gdb, viewer)
	if err != nil {
		return nil, err
	}

	followed, err := followedAmong(gdb, viewerID, []uint{person.ID})
	if err != nil {
		return nil, err
	}

	view := newProfileView(*person, followed[person.ID])
	return &view, nil
}

// Follow 关注目标用户，重复关注不报错
func (s *ProfileService) Follow(ctx context.Context, username, requester string) (*ProfileView, error) {
	return s.setFollowing(ctx, username, requester, true)
}

// Unfollow 取消关注，未关注时同样成功
func (s *ProfileService) Unfollow(ctx context.Context, username, requester string) (*ProfileView, error) {
	return s.setFollowing(ctx, username, requester, false)
}

func (s *ProfileService) setFollowing(ctx context.Context, username, requester string, follow bool) (*ProfileView, error) {
	if requester == "" {
		return nil, ErrAuthRequired
	}

	var view ProfileView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, err := findPerson(tx, username)
		if err != nil {
			return err
		}
		observer, err := findPerson(tx, requester)
		if err != nil {
			return err
		}
		if target.ID == observer.ID {
			v := &ValidationError{}
			v.Add("username", "can't follow yourself")
			return v
		}

		if follow {
			err = tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&db.Follow{ObserverID: observer.ID, TargetID: target.ID}).Error
		} else {
			err = tx.Where("observer_id = ? AND target_id = ?", observer.ID, target.ID).
				Delete(&db.Follow{}).Error
		}
		if err != nil {
			return fmt.Errorf("update follow: %w", err)
		}

		view = newProfileView(*target, follow)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func findPerson(tx *gorm.DB, username string) (*db.Person, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrPersonNotFound
	}

	var person db.Person
	if err := tx.Where("username = ?", username).First(&person).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, err
	}
	return &person, nil
}

// resolveViewerID maps an optional viewer to a person id; unknown or anonymous
// viewers resolve to 0.
func resolveViewerID(tx *gorm.DB, viewer string) (uint, error) {
	if viewer == "" {
		return 0, nil
	}
	person, err := findPerson(tx, viewer)
	if err != nil {
		if errors.Is(err, ErrPersonNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return person.ID, nil
}
