package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// Models lists every table managed by AutoMigrate, in dependency order.
func Models() []interface{} {
	return []interface{}{
		&Person{},
		&Follow{},
		&Tag{},
		&Article{},
		&ArticleTag{},
		&ArticleFavorite{},
		&Comment{},
	}
}

// Init 初始化数据库连接并执行自动迁移。
// databasePath 为空时将回退到默认值 conduit.db。
func Init(databasePath string, logLevel logger.LogLevel) error {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = "conduit.db"
	}

	if err := ensureParentDir(path); err != nil {
		return err
	}

	var err error
	DB, err = gorm.Open(sqlite.Open(DSN(path)), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return err
	}

	// 自动迁移模式，为核心模型创建表
	return Migrate(DB)
}

// Migrate creates or updates the schema on the given connection.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(Models()...); err != nil {
		return err
	}

	// 历史数据：早期草稿以空字符串保存 slug，唯一索引只允许多个 NULL
	return gdb.Model(&Article{}).
		Where("slug = ''").
		UpdateColumn("slug", nil).Error
}

// DSN appends the connection options every conduit database is opened with.
// Write transactions start with BEGIN IMMEDIATE so that concurrent publishers
// queue on the database lock instead of racing on slug probes.
func DSN(path string) string {
	if strings.Contains(path, "?") || strings.HasPrefix(path, "file:") {
		return path
	}
	return path + "?_busy_timeout=5000&_txlock=immediate&_foreign_keys=on"
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
