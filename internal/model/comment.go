package model

import "time"

// Comment 评论。ID 单调递增，兼作帖内评论分页键。
// ParentCommentID 构成扁平的回复引用，级联删除只按 post_id 扫描，不遍历树。
type Comment struct {
	ID              int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	PostID          int64     `json:"post_id" gorm:"index:idx_comment_post;not null"`
	AuthorID        int64     `json:"author_id" gorm:"not null"`
	Content         string    `json:"content" gorm:"type:varchar(300);not null"`
	ParentCommentID *int64    `json:"parent_comment_id,omitempty" gorm:"index:idx_comment_parent"`
	CreatedAt       time.Time `json:"created_at"`
}

func (Comment) TableName() string { return "comments" }

// CommentView 面向客户端的评论视图（附作者用户名）
type CommentView struct {
	Comment
	AuthorUsername string `json:"author_username,omitempty"`
}
