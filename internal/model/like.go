package model

import "time"

// Like 点赞记录（存在即点赞）。Post.LikeCount 是它的冗余计数。
type Like struct {
	ID     string `gorm:"primaryKey;type:varchar(36)"`
	UserID int64  `gorm:"not null;index:idx_like_pair,unique,priority:1"`
	PostID int64  `gorm:"not null;index:idx_like_pair,unique,priority:2;index:idx_like_post"`
	// 复合唯一键，同一用户对同一帖子至多一条
	// idx_like_pair = (user_id, post_id)
	CreatedAt time.Time
}

func (Like) TableName() string { return "likes" }
