package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/inkwell/internal/model"
)

// ErrNotFound 记录不存在（正常结果，区别于存储不可用）
var ErrNotFound = errors.New("record not found")

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id int64) (*model.Post, error)
	// ListBefore 按主键降序取 limit 条 id < before 的帖子；before 为 0 时无上界。
	ListBefore(ctx context.Context, before int64, limit int) ([]*model.Post, error)
	ListByAuthorBefore(ctx context.Context, authorID, before int64, limit int) ([]*model.Post, error)
	// ListLikedBefore 按帖子主键降序取某用户点赞过的帖子
	ListLikedBefore(ctx context.Context, userID, before int64, limit int) ([]*model.Post, error)
	// UpdateContent 仅当 (id, author_id) 匹配时更新，返回影响行数
	UpdateContent(ctx context.Context, id, authorID int64, content string) (int64, error)
	// DeleteOwned 仅当 (id, author_id) 匹配时删除，返回影响行数
	DeleteOwned(ctx context.Context, id, authorID int64) (int64, error)
	IncrementLikeCount(ctx context.Context, id int64) error
	// DecrementLikeCount 带下界保护：like_count 已为 0 时不执行
	DecrementLikeCount(ctx context.Context, id int64) error
	// WithTx 返回绑定到事务的仓储
	WithTx(tx *gorm.DB) PostRepository
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) WithTx(tx *gorm.DB) PostRepository { return &postRepository{db: tx} }

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	var p model.Post
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) ListBefore(ctx context.Context, before int64, limit int) ([]*model.Post, error) {
	var res []*model.Post
	q := r.db.WithContext(ctx).Order("id DESC").Limit(limit)
	if before > 0 {
		q = q.Where("id < ?", before)
	}
	err := q.Find(&res).Error
	return res, err
}

func (r *postRepository) ListByAuthorBefore(ctx context.Context, authorID, before int64, limit int) ([]*model.Post, error) {
	var res []*model.Post
	q := r.db.WithContext(ctx).Where("author_id = ?", authorID).Order("id DESC").Limit(limit)
	if before > 0 {
		q = q.Where("id < ?", before)
	}
	err := q.Find(&res).Error
	return res, err
}

func (r *postRepository) ListLikedBefore(ctx context.Context, userID, before int64, limit int) ([]*model.Post, error) {
	var res []*model.Post
	q := r.db.WithContext(ctx).Model(&model.Post{}).
		Joins("JOIN likes ON likes.post_id = posts.id").
		Where("likes.user_id = ?", userID).
		Order("posts.id DESC").
		Limit(limit)
	if before > 0 {
		q = q.Where("posts.id < ?", before)
	}
	err := q.Find(&res).Error
	return res, err
}

func (r *postRepository) UpdateContent(ctx context.Context, id, authorID int64, content string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ? AND author_id = ?", id, authorID).
		Update("content", content)
	return res.RowsAffected, res.Error
}

func (r *postRepository) DeleteOwned(ctx context.Context, id, authorID int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND author_id = ?", id, authorID).
		Delete(&model.Post{})
	return res.RowsAffected, res.Error
}

func (r *postRepository) IncrementLikeCount(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
}

func (r *postRepository) DecrementLikeCount(ctx context.Context, id int64) error {
	// 下界条件放在存储层，应用层竞态也不会把计数减成负数
	return r.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ? AND like_count > 0", id).
		UpdateColumn("like_count", gorm.Expr("like_count - 1")).Error
}
