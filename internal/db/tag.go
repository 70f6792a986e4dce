package db

import "time"

// Tag 定义了标签模型，标签文本本身即主键
type Tag struct {
	Name      string `gorm:"primaryKey"`
	CreatedAt time.Time
}

// ArticleTag 关联文章与标签，(article_id, tag_name) 唯一
type ArticleTag struct {
	ArticleID uint   `gorm:"primaryKey"`
	TagName   string `gorm:"primaryKey;index"`
	Tag       Tag    `gorm:"foreignKey:TagName;references:Name"`
}
