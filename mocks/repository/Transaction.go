package mocks

import (
	context "context"

	follow_repository "myblog/internal/repository/follow"
	post_repository "myblog/internal/repository/post"
	user_repository "myblog/internal/repository/user"

	mock "github.com/stretchr/testify/mock"
)

// Transaction is a mock type for the Transaction type
type Transaction struct {
	mock.Mock
}

// Commit provides a mock function with given fields: ctx
func (_m *Transaction) Commit(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

// Rollback provides a mock function with given fields: ctx
func (_m *Transaction) Rollback(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

// UserRepository provides a mock function with no fields
func (_m *Transaction) UserRepository() user_repository.Repository {
	ret := _m.Called()

	var r0 user_repository.Repository
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(user_repository.Repository)
	}
	return r0
}

// PostRepository provides a mock function with no fields
func (_m *Transaction) PostRepository() post_repository.Repository {
	ret := _m.Called()

	var r0 post_repository.Repository
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(post_repository.Repository)
	}
	return r0
}

// FollowRepository provides a mock function with no fields
func (_m *Transaction) FollowRepository() follow_repository.Repository {
	ret := _m.Called()

	var r0 follow_repository.Repository
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(follow_repository.Repository)
	}
	return r0
}

// NewTransaction creates a new instance of Transaction. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewTransaction(t interface {
	mock.TestingT
	Cleanup(func())
}) *Transaction {
	m := &Transaction{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
