package mocks

import (
	context "context"
	time "time"

	model "myblog/internal/model"

	mock "github.com/stretchr/testify/mock"
)

// Repository is a mock type for the Repository type
type Repository struct {
	mock.Mock
}

func (_m *Repository) user(ret mock.Arguments) (*model.User, error) {
	var r0 *model.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.User)
	}
	return r0, ret.Error(1)
}

// Create provides a mock function with given fields: ctx, user
func (_m *Repository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	return _m.user(_m.Called(ctx, user))
}

// GetByID provides a mock function with given fields: ctx, id
func (_m *Repository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return _m.user(_m.Called(ctx, id))
}

// GetByIDs provides a mock function with given fields: ctx, ids
func (_m *Repository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.User, error) {
	ret := _m.Called(ctx, ids)

	var r0 map[int64]*model.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(map[int64]*model.User)
	}
	return r0, ret.Error(1)
}

// GetByUsername provides a mock function with given fields: ctx, username
func (_m *Repository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return _m.user(_m.Called(ctx, username))
}

// GetByEmail provides a mock function with given fields: ctx, email
func (_m *Repository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return _m.user(_m.Called(ctx, email))
}

// UpdateProfile provides a mock function with given fields: ctx, id, update
func (_m *Repository) UpdateProfile(ctx context.Context, id int64, update *model.UpdateProfileDTO) (*model.User, error) {
	return _m.user(_m.Called(ctx, id, update))
}

// UpdatePassword provides a mock function with given fields: ctx, id, passwordHash
func (_m *Repository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	ret := _m.Called(ctx, id, passwordHash)
	return ret.Error(0)
}

// UpdateLastSeen provides a mock function with given fields: ctx, id, seen
func (_m *Repository) UpdateLastSeen(ctx context.Context, id int64, seen time.Time) error {
	ret := _m.Called(ctx, id, seen)
	return ret.Error(0)
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
