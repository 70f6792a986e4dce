package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/conduit/internal/db"
	"github.com/conduit/internal/logger"
	"github.com/conduit/internal/service"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 示例数据生成器：通过文章服务创建作者、文章、草稿、评论与收藏
func main() {
	var dbPath string
	var password string
	var logLevel string
	flag.StringVar(&dbPath, "db", "conduit.db", "sqlite db path")
	flag.StringVar(&password, "password", "", "password for seeded accounts (random when empty)")
	flag.StringVar(&logLevel, "log-level", "info", "log level")
	flag.Parse()

	log := logger.New(logLevel, "pretty")

	if err := db.Init(dbPath, logger.GormLevel(logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "init db: %v\n", err)
		os.Exit(1)
	}

	if password == "" {
		password = uuid.NewString()
	}

	report, err := seed(context.Background(), db.DB, password)
	if err != nil {
		log.Error().Err(err).Msg("seed failed")
		os.Exit(1)
	}

	log.Info().
		Int("published", report.Published).
		Int("drafts", report.Drafts).
		Int("comments", report.Comments).
		Msg("seed completed")
	fmt.Printf("accounts: %s, %s (password: %s)\n", writerName, readerName, password)
}

const (
	writerName = "writer"
	readerName = "reader"
)

type sampleArticle struct {
	title       string
	description string
	body        string
	tags        []string
	draft       bool
}

var sampleArticles = []sampleArticle{
	{
		title:       "使用Go语言构建高性能Web服务",
		description: "框架选择、性能优化和实际案例分析",
		body:        "Go语言因其出色的并发性能和简洁的语法，成为构建高性能Web服务的理想选择。\n\n## 框架\n\n本文使用 **Gin** 与 **GORM**。",
		tags:        []string{"go", "web"},
	},
	{
		title:       "SQLite数据库优化实践",
		description: "索引、事务与连接池配置",
		body:        "SQLite作为轻量级数据库，在很多场景下都有出色表现。\n\n- 使用 `BEGIN IMMEDIATE` 串行化写事务\n- 为外键列建立索引",
		tags:        []string{"database", "sqlite"},
	},
	{
		title:       "Gin Middleware in Practice",
		description: "Logging, auth and request ids",
		body:        "Gin supports a flexible middleware chain. This post covers request logging with zerolog.",
		tags:        []string{"go", "web", "middleware"},
	},
	{
		title:       "Notes on Slugs",
		description: "",
		body:        "",
		tags:        []string{"draft-ideas"},
		draft:       true,
	},
}

type seedReport struct {
	Published int
	Drafts    int
	Comments  int
}

func seed(ctx context.Context, gdb *gorm.DB, password string) (seedReport, error) {
	var report seedReport

	for _, username := range []string{writerName, readerName} {
		if err := db.EnsurePerson(gdb, username, "", password); err != nil {
			return report, fmt.Errorf("ensure %s: %w", username, err)
		}
	}

	articles := service.NewArticleService(gdb)
	comments := service.NewCommentService(gdb)
	favorites := service.NewFavoriteService(gdb)
	profiles := service.NewProfileService(gdb)

	if _, err := profiles.Follow(ctx, writerName, readerName); err != nil {
		return report, fmt.Errorf("follow: %w", err)
	}

	for _, sample := range sampleArticles {
		title, description, body := sample.title, sample.description, sample.body
		tags := append([]string{}, sample.tags...)
		input := service.ArticleInput{
			Title:       &title,
			Description: &description,
			Body:        &body,
			TagList:     &tags,
		}

		view, err := articles.Create(ctx, writerName, input, sample.draft)
		if err != nil {
			return report, fmt.Errorf("create %q: %w", sample.title, err)
		}
		if sample.draft {
			report.Drafts++
			continue
		}
		report.Published++

		slug := *view.Slug
		if _, err := comments.Add(ctx, slug, readerName, "感谢分享！"); err != nil {
			return report, fmt.Errorf("comment on %s: %w", slug, err)
		}
		report.Comments++

		if _, err := favorites.Favorite(ctx, slug, readerName); err != nil {
			return report, fmt.Errorf("favorite %s: %w", slug, err)
		}
	}

	return report, nil
}
