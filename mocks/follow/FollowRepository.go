package mocks

import (
	context "context"

	model "myblog/internal/model"

	mock "github.com/stretchr/testify/mock"
)

// Repository is a mock type for the Repository type
type Repository struct {
	mock.Mock
}

// Follow provides a mock function with given fields: ctx, followerID, followedID
func (_m *Repository) Follow(ctx context.Context, followerID int64, followedID int64) error {
	ret := _m.Called(ctx, followerID, followedID)
	return ret.Error(0)
}

// Unfollow provides a mock function with given fields: ctx, followerID, followedID
func (_m *Repository) Unfollow(ctx context.Context, followerID int64, followedID int64) error {
	ret := _m.Called(ctx, followerID, followedID)
	return ret.Error(0)
}

// IsFollowing provides a mock function with given fields: ctx, followerID, followedID
func (_m *Repository) IsFollowing(ctx context.Context, followerID int64, followedID int64) (bool, error) {
	ret := _m.Called(ctx, followerID, followedID)
	return ret.Bool(0), ret.Error(1)
}

// CountFollowers provides a mock function with given fields: ctx, userID
func (_m *Repository) CountFollowers(ctx context.Context, userID int64) (int, error) {
	ret := _m.Called(ctx, userID)
	return ret.Int(0), ret.Error(1)
}

// CountFollowed provides a mock function with given fields: ctx, userID
func (_m *Repository) CountFollowed(ctx context.Context, userID int64) (int, error) {
	ret := _m.Called(ctx, userID)
	return ret.Int(0), ret.Error(1)
}

// ListFollowers provides a mock function with given fields: ctx, userID
func (_m *Repository) ListFollowers(ctx context.Context, userID int64) ([]*model.User, error) {
	ret := _m.Called(ctx, userID)

	var r0 []*model.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*model.User)
	}
	return r0, ret.Error(1)
}

// ListFollowed provides a mock function with given fields: ctx, userID
func (_m *Repository) ListFollowed(ctx context.Context, userID int64) ([]*model.User, error) {
	ret := _m.Called(ctx, userID)

	var r0 []*model.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*model.User)
	}
	return r0, ret.Error(1)
}

// NewRepository creates a new instance of Repository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *Repository {
	m := &Repository{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
