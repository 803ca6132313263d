package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/inkwell/internal/model"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id int64) (*model.Comment, error)
	// ListByPostBefore 帖内评论，按主键降序，before 为 0 时无上界
	ListByPostBefore(ctx context.Context, postID, before int64, limit int) ([]*model.Comment, error)
	DeleteByPost(ctx context.Context, postID int64) (int64, error)
	CountByPost(ctx context.Context, postID int64) (int64, error)
	WithTx(tx *gorm.DB) CommentRepository
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) WithTx(tx *gorm.DB) CommentRepository { return &commentRepository{db: tx} }

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	var c model.Comment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepository) ListByPostBefore(ctx context.Context, postID, before int64, limit int) ([]*model.Comment, error) {
	var res []*model.Comment
	q := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("id DESC").Limit(limit)
	if before > 0 {
		q = q.Where("id < ?", before)
	}
	err := q.Find(&res).Error
	return res, err
}

func (r *commentRepository) DeleteByPost(ctx context.Context, postID int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&model.Comment{})
	return res.RowsAffected, res.Error
}

func (r *commentRepository) CountByPost(ctx context.Context, postID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).Where("post_id = ?", postID).Count(&cnt).Error
	return cnt, err
}
