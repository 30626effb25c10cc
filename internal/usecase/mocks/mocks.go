package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nkhoury/tillbook/internal/domain"
	"github.com/nkhoury/tillbook/internal/usecase"
)

// MockSessionStore is a mock implementation of SessionStore.
type MockSessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]*domain.DaySession

	LoadFunc func(ctx context.Context, branchID int64) (*domain.DaySession, error)
	SaveFunc func(ctx context.Context, session *domain.DaySession) error
}

func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		sessions: make(map[int64]*domain.DaySession),
	}
}

func (m *MockSessionStore) Load(ctx context.Context, branchID int64) (*domain.DaySession, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, branchID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[branchID]; ok {
		return s, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockSessionStore) Save(ctx context.Context, session *domain.DaySession) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, session)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.BranchID] = session
	return nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu      sync.RWMutex
	entries map[string][]domain.Transaction

	CreateBatchFunc func(ctx context.Context, tx usecase.Tx, branchID int64, date time.Time, entries []domain.Transaction) error
	ListByDayFunc   func(ctx context.Context, branchID int64, date time.Time) ([]domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		entries: make(map[string][]domain.Transaction),
	}
}

func dayKey(branchID int64, date time.Time) string {
	return fmt.Sprintf("%d:%s", branchID, date.Format("2006-01-02"))
}

func (m *MockTransactionRepository) CreateBatch(ctx context.Context, tx usecase.Tx, branchID int64, date time.Time, entries []domain.Transaction) error {
	if m.CreateBatchFunc != nil {
		return m.CreateBatchFunc(ctx, tx, branchID, date, entries)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := dayKey(branchID, date)
	m.entries[key] = append(m.entries[key], entries...)
	return nil
}

func (m *MockTransactionRepository) ListByDay(ctx context.Context, branchID int64, date time.Time) ([]domain.Transaction, error) {
	if m.ListByDayFunc != nil {
		return m.ListByDayFunc(ctx, branchID, date)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[dayKey(branchID, date)], nil
}

// MockDailyBalanceRepository is a mock implementation of DailyBalanceRepository.
// The default Create enforces (branch, date) uniqueness the way the database
// constraint does.
type MockDailyBalanceRepository struct {
	mu       sync.RWMutex
	balances map[int64][]*domain.DailyBalance

	CreateFunc       func(ctx context.Context, tx usecase.Tx, balance *domain.DailyBalance) error
	GetLatestFunc    func(ctx context.Context, branchID int64) (*domain.DailyBalance, error)
	ListByBranchFunc func(ctx context.Context, branchID int64, limit, offset int) ([]*domain.DailyBalance, error)
}

func NewMockDailyBalanceRepository() *MockDailyBalanceRepository {
	return &MockDailyBalanceRepository{
		balances: make(map[int64][]*domain.DailyBalance),
	}
}

func (m *MockDailyBalanceRepository) Create(ctx context.Context, tx usecase.Tx, balance *domain.DailyBalance) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, balance)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.balances[balance.BranchID] {
		if b.Date.Equal(balance.Date) {
			return domain.ErrDayAlreadyClosed
		}
	}
	m.balances[balance.BranchID] = append(m.balances[balance.BranchID], balance)
	return nil
}

func (m *MockDailyBalanceRepository) GetLatest(ctx context.Context, branchID int64) (*domain.DailyBalance, error) {
	if m.GetLatestFunc != nil {
		return m.GetLatestFunc(ctx, branchID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *domain.DailyBalance
	for _, b := range m.balances[branchID] {
		if latest == nil || b.Date.After(latest.Date) {
			latest = b
		}
	}
	if latest == nil {
		return nil, domain.ErrBalanceNotFound
	}
	return latest, nil
}

func (m *MockDailyBalanceRepository) ListByBranch(ctx context.Context, branchID int64, limit, offset int) ([]*domain.DailyBalance, error) {
	if m.ListByBranchFunc != nil {
		return m.ListByBranchFunc(ctx, branchID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balances[branchID], nil
}

// MockDifferenceRepository is a mock implementation of DifferenceRepository.
type MockDifferenceRepository struct {
	mu    sync.RWMutex
	diffs []*domain.CashDifference

	CreateFunc       func(ctx context.Context, diff *domain.CashDifference) error
	CreateTxFunc     func(ctx context.Context, tx usecase.Tx, diff *domain.CashDifference) error
	ListByBranchFunc func(ctx context.Context, branchID int64, limit, offset int) ([]*domain.CashDifference, error)
}

func NewMockDifferenceRepository() *MockDifferenceRepository {
	return &MockDifferenceRepository{}
}

func (m *MockDifferenceRepository) Create(ctx context.Context, diff *domain.CashDifference) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, diff)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.diffs = append(m.diffs, diff)
	return nil
}

func (m *MockDifferenceRepository) CreateTx(ctx context.Context, tx usecase.Tx, diff *domain.CashDifference) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, diff)
	}
	return m.Create(ctx, diff)
}

func (m *MockDifferenceRepository) ListByBranch(ctx context.Context, branchID int64, limit, offset int) ([]*domain.CashDifference, error) {
	if m.ListByBranchFunc != nil {
		return m.ListByBranchFunc(ctx, branchID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var diffs []*domain.CashDifference
	for _, d := range m.diffs {
		if d.BranchID == branchID {
			diffs = append(diffs, d)
		}
	}
	return diffs, nil
}

// MockTxManager is a mock implementation of TxManager.
type MockTxManager struct {
	BeginFunc func(ctx context.Context) (usecase.Tx, error)
}

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

func (m *MockTxManager) Begin(ctx context.Context) (usecase.Tx, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTx{}, nil
}

// MockTx is a mock implementation of Tx.
type MockTx struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTx) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTx) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockRetrier is a mock implementation of Retrier; it runs the operation
// once.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}
