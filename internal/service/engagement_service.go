package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/inkwell/internal/cache"
	"github.com/d60-Lab/inkwell/internal/model"
	"github.com/d60-Lab/inkwell/internal/repository"
	"github.com/d60-Lab/inkwell/pkg/pagination"
)

const maxCommentContentLen = 300

// 点赞切换后的状态
const (
	StateLiked   = "liked"
	StateUnliked = "unliked"
)

// ToggleResult 一次切换后的点赞状态与最新计数
type ToggleResult struct {
	State     string `json:"state"`
	LikeCount int64  `json:"like_count"`
}

// EngagementService 点赞切换与评论
type EngagementService interface {
	// ToggleLike 依据当前状态翻转：未赞则赞，已赞则取消。
	// 整个翻转（存在性判断、增删、计数调整）在一个事务里完成。
	ToggleLike(ctx context.Context, userID, postID int64) (*ToggleResult, error)
	CreateComment(ctx context.Context, postID, authorID int64, content string, parentID *int64) (*model.Comment, error)
	ListComments(ctx context.Context, postID int64, cursor string) (pagination.Page[model.CommentView], error)
}

type engagementService struct {
	db       *gorm.DB
	posts    repository.PostRepository
	likes    repository.LikeRepository
	comments repository.CommentRepository
	users    *cache.UserCache
}

func NewEngagementService(db *gorm.DB, posts repository.PostRepository, likes repository.LikeRepository, comments repository.CommentRepository, users *cache.UserCache) EngagementService {
	return &engagementService{db: db, posts: posts, likes: likes, comments: comments, users: users}
}

func (s *engagementService) ToggleLike(ctx context.Context, userID, postID int64) (*ToggleResult, error) {
	var out ToggleResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		posts := s.posts.WithTx(tx)
		likes := s.likes.WithTx(tx)

		if _, err := posts.GetByID(ctx, postID); err != nil {
			return err
		}

		liked, err := likes.Exists(ctx, userID, postID)
		if err != nil {
			return err
		}
		if !liked {
			inserted, err := likes.Insert(ctx, userID, postID)
			if err != nil {
				return err
			}
			// 输在重复插入竞态上等价于"已点赞"，不补第二次自增
			if inserted {
				if err := posts.IncrementLikeCount(ctx, postID); err != nil {
					return err
				}
			}
			out.State = StateLiked
		} else {
			deleted, err := likes.Delete(ctx, userID, postID)
			if err != nil {
				return err
			}
			// 自减带下界保护，双重取消也不会把计数减成负数
			if deleted {
				if err := posts.DecrementLikeCount(ctx, postID); err != nil {
					return err
				}
			}
			out.State = StateUnliked
		}

		p, err := posts.GetByID(ctx, postID)
		if err != nil {
			return err
		}
		out.LikeCount = p.LikeCount
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &out, nil
}

func (s *engagementService) CreateComment(ctx context.Context, postID, authorID int64, content string, parentID *int64) (*model.Comment, error) {
	content, ok := validContent(content, maxCommentContentLen)
	if !ok {
		return nil, ErrInvalidContent
	}
	c := &model.Comment{PostID: postID, AuthorID: authorID, Content: content, ParentCommentID: parentID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.posts.WithTx(tx).GetByID(ctx, postID); err != nil {
			return err
		}
		if parentID != nil {
			parent, err := s.comments.WithTx(tx).GetByID(ctx, *parentID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return ErrInvalidParent
				}
				return err
			}
			if parent.PostID != postID {
				return ErrInvalidParent
			}
		}
		return s.comments.WithTx(tx).Create(ctx, c)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *engagementService) ListComments(ctx context.Context, postID int64, cursor string) (pagination.Page[model.CommentView], error) {
	var empty pagination.Page[model.CommentView]
	before, err := pagination.ParseCursor(cursor)
	if err != nil {
		return empty, err
	}
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return empty, ErrPostNotFound
		}
		return empty, err
	}
	rows, err := s.comments.ListByPostBefore(ctx, postID, before, pagination.PageSize+1)
	if err != nil {
		return empty, err
	}
	page := pagination.New(rows, pagination.PageSize, func(c *model.Comment) int64 { return c.ID })

	views := make([]model.CommentView, len(page.Items))
	ids := make([]int64, len(page.Items))
	for i, c := range page.Items {
		views[i] = model.CommentView{Comment: *c}
		ids[i] = c.AuthorID
	}
	if s.users != nil && len(ids) > 0 {
		names, err := s.users.Usernames(ctx, ids)
		if err != nil {
			return empty, err
		}
		for i := range views {
			views[i].AuthorUsername = names[views[i].AuthorID]
		}
	}
	return pagination.Page[model.CommentView]{Items: views, NextCursor: page.NextCursor}, nil
}
