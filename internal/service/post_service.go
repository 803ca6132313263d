package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/d60-Lab/inkwell/internal/cache"
	"github.com/d60-Lab/inkwell/internal/model"
	"github.com/d60-Lab/inkwell/internal/repository"
	"github.com/d60-Lab/inkwell/pkg/pagination"
)

const maxPostContentLen = 5000

// PostService 帖子生命周期：创建、读取、作者编辑、级联删除、信息流分页
type PostService interface {
	Create(ctx context.Context, authorID int64, content string) (*model.Post, error)
	Get(ctx context.Context, id int64) (*model.PostView, error)
	Update(ctx context.Context, id, requesterID int64, content string) (*model.Post, error)
	// Delete 在一个事务里删除帖子及其全部点赞和评论
	Delete(ctx context.Context, id, requesterID int64) error
	Feed(ctx context.Context, cursor string) (pagination.Page[model.PostView], error)
	PostsByAuthor(ctx context.Context, authorID int64, cursor string) (pagination.Page[model.PostView], error)
	LikedPosts(ctx context.Context, userID int64, cursor string) (pagination.Page[model.PostView], error)
}

type postService struct {
	db       *gorm.DB
	posts    repository.PostRepository
	likes    repository.LikeRepository
	comments repository.CommentRepository
	users    *cache.UserCache
}

func NewPostService(db *gorm.DB, posts repository.PostRepository, likes repository.LikeRepository, comments repository.CommentRepository, users *cache.UserCache) PostService {
	return &postService{db: db, posts: posts, likes: likes, comments: comments, users: users}
}

// validContent 去空白后按字符数校验
func validContent(content string, max int) (string, bool) {
	content = strings.TrimSpace(content)
	n := utf8.RuneCountInString(content)
	return content, n >= 1 && n <= max
}

func (s *postService) Create(ctx context.Context, authorID int64, content string) (*model.Post, error) {
	content, ok := validContent(content, maxPostContentLen)
	if !ok {
		return nil, ErrInvalidContent
	}
	p := &model.Post{AuthorID: authorID, Content: content}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *postService) Get(ctx context.Context, id int64) (*model.PostView, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	views, err := s.hydrate(ctx, []*model.Post{p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *postService) Update(ctx context.Context, id, requesterID int64, content string) (*model.Post, error) {
	content, ok := validContent(content, maxPostContentLen)
	if !ok {
		return nil, ErrInvalidContent
	}
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if !isOwner(p.AuthorID, requesterID) {
		return nil, ErrForbidden
	}
	// 条件更新兜底：归属在检查后被并发改掉则按冲突处理
	n, err := s.posts.UpdateContent(ctx, id, requesterID, content)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrConflict
	}
	p.Content = content
	return p, nil
}

func (s *postService) Delete(ctx context.Context, id, requesterID int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		posts := s.posts.WithTx(tx)
		p, err := posts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !isOwner(p.AuthorID, requesterID) {
			return ErrForbidden
		}
		// 条件删除：0 行说明归属或存在性在途中变了，整体回滚
		n, err := posts.DeleteOwned(ctx, id, requesterID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrConflict
		}
		if _, err := s.likes.WithTx(tx).DeleteByPost(ctx, id); err != nil {
			return err
		}
		if _, err := s.comments.WithTx(tx).DeleteByPost(ctx, id); err != nil {
			return err
		}
		return nil
	})
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPostNotFound
	}
	return err
}

func (s *postService) Feed(ctx context.Context, cursor string) (pagination.Page[model.PostView], error) {
	return s.page(ctx, cursor, func(before int64) ([]*model.Post, error) {
		return s.posts.ListBefore(ctx, before, pagination.PageSize+1)
	})
}

func (s *postService) PostsByAuthor(ctx context.Context, authorID int64, cursor string) (pagination.Page[model.PostView], error) {
	return s.page(ctx, cursor, func(before int64) ([]*model.Post, error) {
		return s.posts.ListByAuthorBefore(ctx, authorID, before, pagination.PageSize+1)
	})
}

func (s *postService) LikedPosts(ctx context.Context, userID int64, cursor string) (pagination.Page[model.PostView], error) {
	return s.page(ctx, cursor, func(before int64) ([]*model.Post, error) {
		return s.posts.ListLikedBefore(ctx, userID, before, pagination.PageSize+1)
	})
}

func (s *postService) page(ctx context.Context, cursor string, fetch func(before int64) ([]*model.Post, error)) (pagination.Page[model.PostView], error) {
	var empty pagination.Page[model.PostView]
	before, err := pagination.ParseCursor(cursor)
	if err != nil {
		return empty, err
	}
	rows, err := fetch(before)
	if err != nil {
		return empty, err
	}
	page := pagination.New(rows, pagination.PageSize, func(p *model.Post) int64 { return p.ID })
	views, err := s.hydrate(ctx, page.Items)
	if err != nil {
		return empty, err
	}
	return pagination.Page[model.PostView]{Items: views, NextCursor: page.NextCursor}, nil
}

func (s *postService) hydrate(ctx context.Context, posts []*model.Post) ([]model.PostView, error) {
	views := make([]model.PostView, len(posts))
	ids := make([]int64, len(posts))
	for i, p := range posts {
		views[i] = model.PostView{Post: *p}
		ids[i] = p.AuthorID
	}
	if s.users == nil || len(posts) == 0 {
		return views, nil
	}
	names, err := s.users.Usernames(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range views {
		views[i].AuthorUsername = names[views[i].AuthorID]
	}
	return views, nil
}
