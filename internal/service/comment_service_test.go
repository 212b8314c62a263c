package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

type commentFixture struct {
	svc      *CommentService
	comments *memoryComments
	events   []events.Event
}

func newCommentFixture(t *testing.T) *commentFixture {
	t.Helper()
	users := &memoryUsers{}
	require.NoError(t, users.Create(context.Background(), &domain.User{Email: "m@example.com", Nickname: "member", Role: domain.RoleUser}))
	posts := &memoryPosts{}
	require.NoError(t, posts.Create(context.Background(), &domain.Post{AuthorID: 1, Title: "t", Content: "c"}))

	f := &commentFixture{comments: &memoryComments{}}
	dispatcher := events.NewInMemoryDispatcher(nil)
	record := func(_ context.Context, e events.Event) error {
		f.events = append(f.events, e)
		return nil
	}
	dispatcher.Subscribe(events.EventCommentCreated, record)
	dispatcher.Subscribe(events.EventCommentDeleted, record)

	f.svc = NewCommentService(CommentDependencies{
		CommentRepo: f.comments,
		UserRepo:    users,
		Posts:       posts,
		Ownership:   auth.NewOwnershipEngine(bcrypt.MinCost),
		Dispatcher:  dispatcher,
	})
	return f
}

func TestAnonymousCommentOwnership(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()
	anon := auth.Anonymous()

	_, err := f.svc.Create(ctx, anon, 1, CommentInput{Content: "hi", AuthorName: "guest"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = f.svc.Create(ctx, anon, 1, CommentInput{Content: "hi", Password: "pw"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	c, err := f.svc.Create(ctx, anon, 1, CommentInput{Content: "hi", AuthorName: "guest", Password: "s3cret", IP: "1.2.3.4"})
	require.NoError(t, err)
	assert.True(t, c.Anonymous())
	assert.NotEqual(t, "s3cret", c.SecretHash)

	_, err = f.svc.Update(ctx, anon, c.ID, "edited", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = f.svc.Update(ctx, anon, c.ID, "edited", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	updated, err := f.svc.Update(ctx, anon, c.ID, "edited", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	assert.ErrorIs(t, f.svc.Delete(ctx, anon, c.ID, "wrong"), apperrors.ErrForbidden)
	require.NoError(t, f.svc.Delete(ctx, anon, c.ID, "s3cret"))
	assert.ErrorIs(t, f.svc.Delete(ctx, anon, c.ID, "s3cret"), apperrors.ErrNotFound)

	require.Len(t, f.events, 2)
	assert.Equal(t, events.EventCommentCreated, f.events[0].Type)
	assert.Equal(t, "1.2.3.4", f.events[0].Actor.IP)
	assert.Equal(t, events.EventCommentDeleted, f.events[1].Type)
}

func TestMemberCommentOwnership(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()
	member := auth.Identified(1, domain.RoleUser)

	c, err := f.svc.Create(ctx, member, 1, CommentInput{Content: "hello", AuthorName: "ignored", Password: "ignored"})
	require.NoError(t, err)
	assert.False(t, c.Anonymous())
	assert.Equal(t, "member", c.AuthorName)
	assert.Empty(t, c.SecretHash)

	_, err = f.svc.Update(ctx, auth.Anonymous(), c.ID, "x", "ignored")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	_, err = f.svc.Update(ctx, auth.Identified(2, domain.RoleUser), c.ID, "x", "")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	require.NoError(t, f.svc.Delete(ctx, auth.Identified(99, domain.RoleAdmin), c.ID, ""))
}

func TestAdminBypassesAnonymousSecret(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()

	c, err := f.svc.Create(ctx, auth.Anonymous(), 1, CommentInput{Content: "spam", AuthorName: "bot", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, auth.Identified(99, domain.RoleAdmin), c.ID, ""))
}

func TestCommentsOnMissingPost(t *testing.T) {
	f := newCommentFixture(t)

	_, err := f.svc.Create(context.Background(), auth.Identified(1, domain.RoleUser), 404, CommentInput{Content: "x"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = f.svc.List(context.Background(), 404, Page{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListCommentsPaged(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()
	for _, content := range []string{"a", "b", "c"} {
		_, err := f.svc.Create(ctx, auth.Identified(1, domain.RoleUser), 1, CommentInput{Content: content})
		require.NoError(t, err)
	}

	page, err := f.svc.List(ctx, 1, Page{Number: 1, Size: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "c", page[0].Content)
}

func TestCommentContentLength(t *testing.T) {
	f := newCommentFixture(t)
	ctx := context.Background()
	anon := auth.Anonymous()
	input := CommentInput{AuthorName: "guest", Password: "s3cret"}

	input.Content = strings.Repeat("x", 1001)
	_, err := f.svc.Create(ctx, anon, 1, input)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Empty(t, f.events)

	input.Content = strings.Repeat("ü", 1000)
	c, err := f.svc.Create(ctx, anon, 1, input)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, anon, c.ID, strings.Repeat("x", 1001), "s3cret")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
