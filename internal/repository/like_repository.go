package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/inkwell/internal/model"
)

type LikeRepository interface {
	// Insert 幂等插入：(user, post) 已存在时不报错，返回 false。
	// 唯一键在存储层兜底，两个并发插入至多一条落地。
	Insert(ctx context.Context, userID, postID int64) (bool, error)
	// Delete 返回是否真的删掉了一条
	Delete(ctx context.Context, userID, postID int64) (bool, error)
	Exists(ctx context.Context, userID, postID int64) (bool, error)
	DeleteByPost(ctx context.Context, postID int64) (int64, error)
	CountByPost(ctx context.Context, postID int64) (int64, error)
	WithTx(tx *gorm.DB) LikeRepository
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) WithTx(tx *gorm.DB) LikeRepository { return &likeRepository{db: tx} }

func (r *likeRepository) Insert(ctx context.Context, userID, postID int64) (bool, error) {
	l := &model.Like{ID: uuid.New().String(), UserID: userID, PostID: postID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(l)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) Delete(ctx context.Context, userID, postID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) Exists(ctx context.Context, userID, postID int64) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *likeRepository) DeleteByPost(ctx context.Context, postID int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&model.Like{})
	return res.RowsAffected, res.Error
}

func (r *likeRepository) CountByPost(ctx context.Context, postID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Like{}).Where("post_id = ?", postID).Count(&cnt).Error
	return cnt, err
}
