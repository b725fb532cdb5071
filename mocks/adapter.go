// Package mocks holds hand-maintained gomock doubles for jockey's
// interfaces. mockgen cannot generate mocks for generic interfaces, so
// this mirrors mockgen's own output shape (MockX / MockXMockRecorder /
// EXPECT) for the one instantiation jockey's own tests need:
// Adapter[string, int, int].
package mocks

import (
	"context"
	"reflect"

	"github.com/golang/mock/gomock"
)

// Adapter is the Adapter[string, int, int] instantiation this package
// mocks.
type Adapter = adapterIface

type adapterIface interface {
	Keys(ctx context.Context) ([]string, error)
	Payload(ctx context.Context) (int, error)
	OnSuccess(ctx context.Context, result int)
	OnFailure(ctx context.Context, err error)
	OnCancel(ctx context.Context, reason error)
}

// MockAdapter is a mock of the Adapter interface.
type MockAdapter struct {
	ctrl     *gomock.Controller
	recorder *MockAdapterMockRecorder
}

// MockAdapterMockRecorder is the mock recorder for MockAdapter.
type MockAdapterMockRecorder struct {
	mock *MockAdapter
}

// NewMockAdapter creates a new mock instance.
func NewMockAdapter(ctrl *gomock.Controller) *MockAdapter {
	mock := &MockAdapter{ctrl: ctrl}
	mock.recorder = &MockAdapterMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockAdapter) EXPECT() *MockAdapterMockRecorder {
	return m.recorder
}

func (m *MockAdapter) Keys(ctx context.Context) ([]string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Keys", ctx)
	ret0, _ := ret[0].([]string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockAdapterMockRecorder) Keys(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Keys", reflect.TypeOf((*MockAdapter)(nil).Keys), ctx)
}

func (m *MockAdapter) Payload(ctx context.Context) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Payload", ctx)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

func (mr *MockAdapterMockRecorder) Payload(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Payload", reflect.TypeOf((*MockAdapter)(nil).Payload), ctx)
}

func (m *MockAdapter) OnSuccess(ctx context.Context, result int) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "OnSuccess", ctx, result)
}

func (mr *MockAdapterMockRecorder) OnSuccess(ctx, result interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OnSuccess", reflect.TypeOf((*MockAdapter)(nil).OnSuccess), ctx, result)
}

func (m *MockAdapter) OnFailure(ctx context.Context, err error) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "OnFailure", ctx, err)
}

func (mr *MockAdapterMockRecorder) OnFailure(ctx, err interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OnFailure", reflect.TypeOf((*MockAdapter)(nil).OnFailure), ctx, err)
}

func (m *MockAdapter) OnCancel(ctx context.Context, reason error) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "OnCancel", ctx, reason)
}

func (mr *MockAdapterMockRecorder) OnCancel(ctx, reason interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OnCancel", reflect.TypeOf((*MockAdapter)(nil).OnCancel), ctx, reason)
}
