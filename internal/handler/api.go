package handler

import (
	"github.com/conduit/internal/service"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	articles  *service.ArticleService
	comments  *service.CommentService
	favorites *service.FavoriteService
	profiles  *service.ProfileService
	tags      *service.TagService
	log       zerolog.Logger
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, log zerolog.Logger) *API {
	return &API{
		db:        db,
		articles:  service.NewArticleService(db),
		comments:  service.NewCommentService(db),
		favorites: service.NewFavoriteService(db),
		profiles:  service.NewProfileService(db),
		tags:      service.NewTagService(db),
		log:       log.With().Str("component", "handler").Logger(),
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}
