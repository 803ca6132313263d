package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/inkwell/internal/cache"
	"github.com/d60-Lab/inkwell/internal/model"
	"github.com/d60-Lab/inkwell/internal/repository"
	"github.com/d60-Lab/inkwell/pkg/database"
)

type fixture struct {
	db         *gorm.DB
	posts      repository.PostRepository
	likes      repository.LikeRepository
	comments   repository.CommentRepository
	users      *cache.UserCache
	postSvc    PostService
	engagement EngagementService
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	f := &fixture{
		db:       db,
		posts:    repository.NewPostRepository(db),
		likes:    repository.NewLikeRepository(db),
		comments: repository.NewCommentRepository(db),
		users:    cache.NewUserCache(nil, repository.NewUserRepository(db), 0),
	}
	f.postSvc = NewPostService(db, f.posts, f.likes, f.comments, f.users)
	f.engagement = NewEngagementService(db, f.posts, f.likes, f.comments, f.users)
	return f
}

func (f *fixture) seedUser(t *testing.T, id int64, name string) {
	t.Helper()
	u := &model.User{ID: id, Username: name, Email: fmt.Sprintf("%s@example.com", name), Password: "x"}
	require.NoError(t, f.db.Create(u).Error)
}

func TestCreatePostValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.postSvc.Create(ctx, 1, "")
	assert.ErrorIs(t, err, ErrInvalidContent)
	_, err = f.postSvc.Create(ctx, 1, "   \n\t ")
	assert.ErrorIs(t, err, ErrInvalidContent)
	_, err = f.postSvc.Create(ctx, 1, strings.Repeat("x", 5001))
	assert.ErrorIs(t, err, ErrInvalidContent)

	p, err := f.postSvc.Create(ctx, 1, "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", p.Content)
	assert.EqualValues(t, 0, p.LikeCount)
}

func TestFeedTwoPages(t *testing.T) {
	f := setup(t)
	f.seedUser(t, 1, "ada")
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		_, err := f.postSvc.Create(ctx, 1, fmt.Sprintf("post %d", i))
		require.NoError(t, err)
	}

	page1, err := f.postSvc.Feed(ctx, "")
	require.NoError(t, err)
	require.Len(t, page1.Items, 25)
	require.NotNil(t, page1.NextCursor)
	assert.Equal(t, "post 29", page1.Items[0].Content)
	assert.Equal(t, "ada", page1.Items[0].AuthorUsername)

	page2, err := f.postSvc.Feed(ctx, *page1.NextCursor)
	require.NoError(t, err)
	require.Len(t, page2.Items, 5)
	assert.Nil(t, page2.NextCursor)
	assert.Equal(t, "post 0", page2.Items[4].Content)
}

func TestFeedStableUnderConcurrentInserts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	initial := make(map[int64]bool, 30)
	for i := 0; i < 30; i++ {
		p, err := f.postSvc.Create(ctx, 1, fmt.Sprintf("old %d", i))
		require.NoError(t, err)
		initial[p.ID] = true
	}

	page1, err := f.postSvc.Feed(ctx, "")
	require.NoError(t, err)
	require.Len(t, page1.Items, 25)

	// newer posts land after the scan started; the cursor is a value
	// comparison, so page 2 is unaffected
	for i := 0; i < 10; i++ {
		_, err := f.postSvc.Create(ctx, 2, fmt.Sprintf("new %d", i))
		require.NoError(t, err)
	}

	page2, err := f.postSvc.Feed(ctx, *page1.NextCursor)
	require.NoError(t, err)
	require.Len(t, page2.Items, 5)
	assert.Nil(t, page2.NextCursor)

	seen := make(map[int64]bool)
	var prev int64
	for i, v := range append(page1.Items, page2.Items...) {
		assert.False(t, seen[v.ID], "duplicate id %d", v.ID)
		assert.True(t, initial[v.ID], "unexpected post %d in pages started before inserts", v.ID)
		if i > 0 {
			assert.Less(t, v.ID, prev, "descending order broken")
		}
		seen[v.ID] = true
		prev = v.ID
	}
	assert.Len(t, seen, 30)
}

func TestFeedMalformedCursor(t *testing.T) {
	f := setup(t)
	_, err := f.postSvc.Feed(context.Background(), "not-a-key")
	assert.Error(t, err)
}

func TestFeedEmpty(t *testing.T) {
	f := setup(t)
	page, err := f.postSvc.Feed(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Nil(t, page.NextCursor)
}

func TestUpdateOwnership(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p, err := f.postSvc.Create(ctx, 1, "original")
	require.NoError(t, err)

	_, err = f.postSvc.Update(ctx, p.ID, 2, "hijacked")
	assert.ErrorIs(t, err, ErrForbidden)
	got, err := f.posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Content)

	_, err = f.postSvc.Update(ctx, 999, 1, "whatever")
	assert.ErrorIs(t, err, ErrPostNotFound)

	upd, err := f.postSvc.Update(ctx, p.ID, 1, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", upd.Content)
}

func TestCascadeDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	target, err := f.postSvc.Create(ctx, 1, "doomed")
	require.NoError(t, err)
	other, err := f.postSvc.Create(ctx, 2, "survivor")
	require.NoError(t, err)

	for uid := int64(10); uid < 13; uid++ {
		_, err := f.engagement.ToggleLike(ctx, uid, target.ID)
		require.NoError(t, err)
		_, err = f.engagement.ToggleLike(ctx, uid, other.ID)
		require.NoError(t, err)
	}
	for i := 0; i < 4; i++ {
		_, err := f.engagement.CreateComment(ctx, target.ID, 10, fmt.Sprintf("c%d", i), nil)
		require.NoError(t, err)
	}
	_, err = f.engagement.CreateComment(ctx, other.ID, 10, "keep me", nil)
	require.NoError(t, err)

	require.NoError(t, f.postSvc.Delete(ctx, target.ID, 1))

	_, err = f.posts.GetByID(ctx, target.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	cnt, err := f.likes.CountByPost(ctx, target.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, cnt)
	cnt, err = f.comments.CountByPost(ctx, target.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, cnt)

	// unrelated records untouched
	cnt, err = f.likes.CountByPost(ctx, other.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, cnt)
	cnt, err = f.comments.CountByPost(ctx, other.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)

	// re-issuing the delete is a well-defined not-found
	assert.ErrorIs(t, f.postSvc.Delete(ctx, target.ID, 1), ErrPostNotFound)
}

func TestDeleteForbiddenLeavesEverything(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p, err := f.postSvc.Create(ctx, 1, "mine")
	require.NoError(t, err)
	_, err = f.engagement.ToggleLike(ctx, 5, p.ID)
	require.NoError(t, err)
	_, err = f.engagement.CreateComment(ctx, p.ID, 5, "hi", nil)
	require.NoError(t, err)

	// forbidden, not not-found: the post exists but belongs to someone else
	assert.ErrorIs(t, f.postSvc.Delete(ctx, p.ID, 2), ErrForbidden)

	got, err := f.posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.LikeCount)
	cnt, err := f.comments.CountByPost(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)
}

// failingCommentRepo 注入级联第三步失败，验证整体回滚
type failingCommentRepo struct {
	repository.CommentRepository
}

func (r *failingCommentRepo) WithTx(tx *gorm.DB) repository.CommentRepository {
	return &failingCommentRepo{r.CommentRepository.WithTx(tx)}
}

func (r *failingCommentRepo) DeleteByPost(ctx context.Context, postID int64) (int64, error) {
	return 0, fmt.Errorf("store unavailable")
}

func TestCascadeDeleteRollsBackOnFailure(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	p, err := f.postSvc.Create(ctx, 1, "survives the failed cascade")
	require.NoError(t, err)
	_, err = f.engagement.ToggleLike(ctx, 5, p.ID)
	require.NoError(t, err)
	_, err = f.engagement.CreateComment(ctx, p.ID, 5, "still here", nil)
	require.NoError(t, err)

	broken := NewPostService(f.db, f.posts, f.likes, &failingCommentRepo{f.comments}, f.users)
	err = broken.Delete(ctx, p.ID, 1)
	require.Error(t, err)

	// all or nothing: post, like and comment all still present
	got, err := f.posts.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.LikeCount)
	cnt, err := f.likes.CountByPost(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)
	cnt, err = f.comments.CountByPost(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)
}

func TestProfileListings(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	var mine []*model.Post
	for i := 0; i < 3; i++ {
		p, err := f.postSvc.Create(ctx, 1, fmt.Sprintf("mine %d", i))
		require.NoError(t, err)
		mine = append(mine, p)
	}
	theirs, err := f.postSvc.Create(ctx, 2, "theirs")
	require.NoError(t, err)

	page, err := f.postSvc.PostsByAuthor(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, mine[2].ID, page.Items[0].ID)

	_, err = f.engagement.ToggleLike(ctx, 1, theirs.ID)
	require.NoError(t, err)
	_, err = f.engagement.ToggleLike(ctx, 1, mine[0].ID)
	require.NoError(t, err)

	liked, err := f.postSvc.LikedPosts(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, liked.Items, 2)
	// ordered by post key descending, not by like time
	assert.Equal(t, theirs.ID, liked.Items[0].ID)
	assert.Equal(t, mine[0].ID, liked.Items[1].ID)
}
