//	mockgen -source=internal/usecase/interfaces.go -destination=internal/usecase/mocks/mock_interfaces.go -package=mocks
//

// Package mocks is a generated GoMock package.
package mocks

import (
	context "context"
	reflect "reflect"
	time "time"

	gomock "go.uber.org/mock/gomock"

	domain "github.com/nkhoury/tillbook/internal/domain"
	usecase "github.com/nkhoury/tillbook/internal/usecase"
)

// MockCreditRepository is a mock of CreditRepository interface.
type MockCreditRepository struct {
	ctrl     *gomock.Controller
	recorder *MockCreditRepositoryMockRecorder
	isgomock struct{}
}

// MockCreditRepositoryMockRecorder is the mock recorder for MockCreditRepository.
type MockCreditRepositoryMockRecorder struct {
	mock *MockCreditRepository
}

// NewMockCreditRepository creates a new mock instance.
func NewMockCreditRepository(ctrl *gomock.Controller) *MockCreditRepository {
	mock := &MockCreditRepository{ctrl: ctrl}
	mock.recorder = &MockCreditRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockCreditRepository) EXPECT() *MockCreditRepositoryMockRecorder {
	return m.recorder
}

// Create mocks base method.
func (m *MockCreditRepository) Create(ctx context.Context, tx usecase.Tx, credit *domain.Credit) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, tx, credit)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create.
func (mr *MockCreditRepositoryMockRecorder) Create(ctx, tx, credit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockCreditRepository)(nil).Create), ctx, tx, credit)
}

// GetByID mocks base method.
func (m *MockCreditRepository) GetByID(ctx context.Context, id string) (*domain.Credit, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, id)
	ret0, _ := ret[0].(*domain.Credit)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByID indicates an expected call of GetByID.
func (mr *MockCreditRepositoryMockRecorder) GetByID(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockCreditRepository)(nil).GetByID), ctx, id)
}

// GetByIDForUpdate mocks base method.
func (m *MockCreditRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Tx, id string) (*domain.Credit, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByIDForUpdate", ctx, tx, id)
	ret0, _ := ret[0].(*domain.Credit)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByIDForUpdate indicates an expected call of GetByIDForUpdate.
func (mr *MockCreditRepositoryMockRecorder) GetByIDForUpdate(ctx, tx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByIDForUpdate", reflect.TypeOf((*MockCreditRepository)(nil).GetByIDForUpdate), ctx, tx, id)
}

// ListUnpaid mocks base method.
func (m *MockCreditRepository) ListUnpaid(ctx context.Context, branchID int64, limit, offset int) ([]*domain.Credit, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListUnpaid", ctx, branchID, limit, offset)
	ret0, _ := ret[0].([]*domain.Credit)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListUnpaid indicates an expected call of ListUnpaid.
func (mr *MockCreditRepositoryMockRecorder) ListUnpaid(ctx, branchID, limit, offset any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListUnpaid", reflect.TypeOf((*MockCreditRepository)(nil).ListUnpaid), ctx, branchID, limit, offset)
}

// UpdatePayment mocks base method.
func (m *MockCreditRepository) UpdatePayment(ctx context.Context, tx usecase.Tx, id string, paid domain.Amount, status domain.CreditStatus, updatedAt time.Time) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdatePayment", ctx, tx, id, paid, status, updatedAt)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdatePayment indicates an expected call of UpdatePayment.
func (mr *MockCreditRepositoryMockRecorder) UpdatePayment(ctx, tx, id, paid, status, updatedAt any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdatePayment", reflect.TypeOf((*MockCreditRepository)(nil).UpdatePayment), ctx, tx, id, paid, status, updatedAt)
}
