package mocks

import (
	context "context"

	repository "myblog/internal/repository"

	mock "github.com/stretchr/testify/mock"
)

// UnitOfWork is a mock type for the UnitOfWork type
type UnitOfWork struct {
	mock.Mock
}

// Begin provides a mock function with given fields: ctx
func (_m *UnitOfWork) Begin(ctx context.Context) (repository.Transaction, error) {
	ret := _m.Called(ctx)

	var r0 repository.Transaction
	if rf, ok := ret.Get(0).(func(context.Context) repository.Transaction); ok {
		r0 = rf(ctx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(repository.Transaction)
	}

	return r0, ret.Error(1)
}

// NewUnitOfWork creates a new instance of UnitOfWork. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewUnitOfWork(t interface {
	mock.TestingT
	Cleanup(func())
}) *UnitOfWork {
	m := &UnitOfWork{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
