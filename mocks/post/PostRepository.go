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

// Create provides a mock function with given fields: ctx, post
func (_m *Repository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	ret := _m.Called(ctx, post)

	var r0 *model.Post
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Post)
	}
	return r0, ret.Error(1)
}

// List provides a mock function with given fields: ctx, filters
func (_m *Repository) List(ctx context.Context, filters model.PostFilters) ([]*model.Post, int, error) {
	ret := _m.Called(ctx, filters)

	var r0 []*model.Post
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*model.Post)
	}
	return r0, ret.Int(1), ret.Error(2)
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
