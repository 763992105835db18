package mocks

import (
	context "context"

	model "myblog/internal/model"

	mock "github.com/stretchr/testify/mock"
)

// UserCache is a mock type for the UserCache type
type UserCache struct {
	mock.Mock
}

// GetUser provides a mock function with given fields: ctx, userID
func (_m *UserCache) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	ret := _m.Called(ctx, userID)

	var r0 *model.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.User)
	}
	return r0, ret.Error(1)
}

// SetUser provides a mock function with given fields: ctx, user
func (_m *UserCache) SetUser(ctx context.Context, user *model.User) error {
	ret := _m.Called(ctx, user)
	return ret.Error(0)
}

// DeleteUser provides a mock function with given fields: ctx, userID
func (_m *UserCache) DeleteUser(ctx context.Context, userID int64) error {
	ret := _m.Called(ctx, userID)
	return ret.Error(0)
}

// NewUserCache creates a new instance of UserCache. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewUserCache(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserCache {
	m := &UserCache{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
