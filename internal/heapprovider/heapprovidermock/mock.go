// Package heapprovidermock is a hand-written gomock.Controller-based mock
// of heapprovider.Provider, in the shape mockgen would generate, used by
// internal/segalloc's tests to exercise heap-exhaustion handling without
// waiting for a real provider to actually run out of address space. No
// code generator runs in this repository (see DESIGN.md), so this is
// written directly against go.uber.org/mock/gomock.
package heapprovidermock

import (
	"reflect"

	"go.uber.org/mock/gomock"
)

// MockProvider mocks heapprovider.Provider.
type MockProvider struct {
	ctrl     *gomock.Controller
	recorder *MockProviderMockRecorder
}

// MockProviderMockRecorder records expected calls on MockProvider.
type MockProviderMockRecorder struct {
	mock *MockProvider
}

// NewMockProvider returns a new mock controlled by ctrl.
func NewMockProvider(ctrl *gomock.Controller) *MockProvider {
	mock := &MockProvider{ctrl: ctrl}
	mock.recorder = &MockProviderMockRecorder{mock: mock}

	return mock
}

// EXPECT returns the recorder used to set up expected calls.
func (m *MockProvider) EXPECT() *MockProviderMockRecorder {
	return m.recorder
}

// Bytes mocks Provider.Bytes.
func (m *MockProvider) Bytes() []byte {
	m.ctrl.T.Helper()

	ret := m.ctrl.Call(m, "Bytes")
	ret0, _ := ret[0].([]byte)

	return ret0
}

// Bytes records an expected call to Bytes.
func (mr *MockProviderMockRecorder) Bytes() *gomock.Call {
	mr.mock.ctrl.T.Helper()

	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Bytes", reflect.TypeOf((*MockProvider)(nil).Bytes))
}

// Grow mocks Provider.Grow.
func (m *MockProvider) Grow(n int) (int, error) {
	m.ctrl.T.Helper()

	ret := m.ctrl.Call(m, "Grow", n)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)

	return ret0, ret1
}

// Grow records an expected call to Grow.
func (mr *MockProviderMockRecorder) Grow(n interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()

	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Grow", reflect.TypeOf((*MockProvider)(nil).Grow), n)
}

// FormatVersion mocks Provider.FormatVersion.
func (m *MockProvider) FormatVersion() string {
	m.ctrl.T.Helper()

	ret := m.ctrl.Call(m, "FormatVersion")
	ret0, _ := ret[0].(string)

	return ret0
}

// FormatVersion records an expected call to FormatVersion.
func (mr *MockProviderMockRecorder) FormatVersion() *gomock.Call {
	mr.mock.ctrl.T.Helper()

	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FormatVersion", reflect.TypeOf((*MockProvider)(nil).FormatVersion))
}
