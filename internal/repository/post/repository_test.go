package post_repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myblog/internal/logger"
	"myblog/internal/model"
	"myblog/internal/repository/memory"
)

func setupPostTest(t *testing.T) *memory.Store {
	return memory.NewStore(logger.New("test"))
}

func createUser(t *testing.T, store *memory.Store, name string) *model.User {
	t.Helper()
	user, err := store.Users.Create(context.Background(), &model.User{Username: name, Email: name + "@example.com"})
	require.NoError(t, err)
	return user
}

func TestPostRepository_Create(t *testing.T) {
	store := setupPostTest(t)
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name string
		post *model.Post
		want time.Time
	}{
		{
			name: "timestamp defaults to now",
			post: &model.Post{AuthorID: 1, Body: "hello"},
		},
		{
			name: "explicit timestamp is kept",
			post: &model.Post{AuthorID: 1, Body: "hello", CreatedAt: fixed},
			want: fixed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Posts.Create(context.Background(), tt.post)
			require.NoError(t, err)
			assert.NotZero(t, got.ID)
			assert.Equal(t, tt.post.Body, got.Body)
			assert.Equal(t, tt.post.AuthorID, got.AuthorID)
			if tt.want.IsZero() {
				assert.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)
			} else {
				assert.Equal(t, tt.want, got.CreatedAt)
			}
		})
	}
}

func TestPostRepository_List_FollowedPosts(t *testing.T) {
	ctx := context.Background()
	store := setupPostTest(t)
	john := createUser(t, store, "john")
	susan := createUser(t, store, "susan")
	mary := createUser(t, store, "mary")
	david := createUser(t, store, "david")

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, author := range []*model.User{john, susan, mary, david} {
		_, err := store.Posts.Create(ctx, &model.Post{
			AuthorID:  author.ID,
			Body:      "post from " + author.Username,
			CreatedAt: base.Add(time.Duration(i+1) * time.Second),
		})
		require.NoError(t, err)
	}

	require.NoError(t, store.Follows.Follow(ctx, john.ID, susan.ID))
	require.NoError(t, store.Follows.Follow(ctx, john.ID, david.ID))
	require.NoError(t, store.Follows.Follow(ctx, susan.ID, mary.ID))

	tests := []struct {
		name    string
		user    *model.User
		authors []int64
	}{
		{name: "two followed authors newest first", user: john, authors: []int64{david.ID, susan.ID}},
		{name: "one followed author", user: susan, authors: []int64{mary.ID}},
		{name: "follows nobody", user: mary, authors: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, total, err := store.Posts.List(ctx, tt.user.FollowedPosts())
			require.NoError(t, err)
			assert.Equal(t, len(tt.authors), total)
			got := make([]int64, 0, len(posts))
			for _, p := range posts {
				got = append(got, p.AuthorID)
			}
			assert.Equal(t, tt.authors, got)
		})
	}
}

func TestPostRepository_List_Pagination(t *testing.T) {
	ctx := context.Background()
	store := setupPostTest(t)
	author := createUser(t, store, "john")
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		_, err := store.Posts.Create(ctx, &model.Post{
			AuthorID:  author.ID,
			Body:      fmt.Sprintf("post %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	tests := []struct {
		name      string
		page      int
		wantLen   int
		wantFirst string
	}{
		{name: "first page", page: 1, wantLen: 10, wantFirst: "post 24"},
		{name: "last page", page: 3, wantLen: 5, wantFirst: "post 4"},
		{name: "past the end", page: 4, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, limit, offset := model.PageBounds(tt.page, 10)
			filters := model.PostFilters{AuthorID: &author.ID}.WithPage(limit, offset)
			posts, total, err := store.Posts.List(ctx, filters)
			require.NoError(t, err)
			assert.Equal(t, 25, total)
			assert.Len(t, posts, tt.wantLen)
			if tt.wantFirst != "" {
				assert.Equal(t, tt.wantFirst, posts[0].Body)
			}
		})
	}
}

func TestPostRepository_List_SameTimestampOrdersByID(t *testing.T) {
	ctx := context.Background()
	store := setupPostTest(t)
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	first, err := store.Posts.Create(ctx, &model.Post{AuthorID: 1, Body: "a", CreatedAt: at})
	require.NoError(t, err)
	second, err := store.Posts.Create(ctx, &model.Post{AuthorID: 1, Body: "b", CreatedAt: at})
	require.NoError(t, err)

	posts, _, err := store.Posts.List(ctx, model.PostFilters{})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
}
