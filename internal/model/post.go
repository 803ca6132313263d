package model

import "time"

// Post 内容主体。ID 单调递增，兼作游标分页键。
type Post struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	AuthorID  int64     `json:"author_id" gorm:"index:idx_post_author,priority:1;not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	LikeCount int64     `json:"like_count" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Post) TableName() string { return "posts" }

// PostView 面向客户端的帖子视图（附作者用户名）
type PostView struct {
	Post
	AuthorUsername string `json:"author_username,omitempty"`
}
