package usecase

import (
	"context"
	"io"
	"sync"
	"time"

	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/model"
	"wallet-service/src/pkg/log"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// In-memory stores with the same conditional-write semantics as the MySQL
// repositories. The CAS paths guard with a mutex so the concurrency tests
// exercise real lost-update races.

func testLogger() log.Log {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return log.Log{AppName: "wallet-service-test", LogLevel: 3, Logger: l}
}

type fakeTransactionStore struct {
	mu        sync.Mutex
	entries   map[string]*entity.WalletTransaction
	order     []string
	createErr error
}

func newFakeTransactionStore() *fakeTransactionStore {
	return &fakeTransactionStore{entries: map[string]*entity.WalletTransaction{}}
}

func copyTx(tx *entity.WalletTransaction) *entity.WalletTransaction {
	clone := *tx
	if tx.Metadata != nil {
		clone.Metadata = entity.Metadata{}
		for k, v := range tx.Metadata {
			clone.Metadata[k] = v
		}
	}
	return &clone
}

func (s *fakeTransactionStore) Create(ctx context.Context, tx *entity.WalletTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.entries[tx.ID] = copyTx(tx)
	s.order = append(s.order, tx.ID)
	return nil
}

func (s *fakeTransactionStore) FindByID(ctx context.Context, id string) (*entity.WalletTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.entries[id]
	if !ok {
		return nil, nil
	}
	return copyTx(tx), nil
}

func (s *fakeTransactionStore) AggregateBalances(ctx context.Context, walletID string, statuses ...entity.TransactionStatus) ([]entity.BalanceAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wanted := map[entity.TransactionStatus]bool{}
	for _, st := range statuses {
		wanted[st] = true
	}

	type key struct {
		t entity.TransactionType
		b entity.BalanceType
	}
	totals := map[key]decimal.Decimal{}
	for _, tx := range s.entries {
		if tx.WalletID != walletID || !wanted[tx.Status] {
			continue
		}
		k := key{tx.Type, tx.BalanceType}
		totals[k] = totals[k].Add(tx.Amount)
	}

	rows := make([]entity.BalanceAggregate, 0, len(totals))
	for k, total := range totals {
		rows = append(rows, entity.BalanceAggregate{Type: k.t, BalanceType: k.b, Total: total})
	}
	return rows, nil
}

func (s *fakeTransactionStore) Complete(ctx context.Context, id string, before, after model.BalanceSnapshot, completedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.entries[id]
	if !ok || tx.Status != entity.TransactionStatusPending {
		return false, nil
	}
	tx.Status = entity.TransactionStatusCompleted
	tx.DepositBefore = before.DepositBalance
	tx.WithdrawableBefore = before.WithdrawableBalance
	tx.TotalBefore = before.TotalBalance
	tx.DepositAfter = after.DepositBalance
	tx.WithdrawableAfter = after.WithdrawableBalance
	tx.TotalAfter = after.TotalBalance
	at := completedAt
	tx.CompletedAt = &at
	return true, nil
}

func (s *fakeTransactionStore) Fail(ctx context.Context, id, reason string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.entries[id]
	if !ok || tx.Status != entity.TransactionStatusPending {
		return false, nil
	}
	tx.Status = entity.TransactionStatusFailed
	tx.FailureReason = &reason
	return true, nil
}

func (s *fakeTransactionStore) MarkConsumed(ctx context.Context, id, permitID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.entries[id]
	if !ok || tx.Status != entity.TransactionStatusCompleted {
		return false, nil
	}
	if tx.Metadata == nil {
		tx.Metadata = entity.Metadata{}
	}
	if tx.Metadata[entity.MetadataKeyEvpID] != "" {
		return false, nil
	}
	tx.Metadata[entity.MetadataKeyEvpID] = permitID
	return true, nil
}

func (s *fakeTransactionStore) ListByWallet(ctx context.Context, walletID string, page, limit int) ([]entity.WalletTransaction, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]entity.WalletTransaction, 0)
	for i := len(s.order) - 1; i >= 0; i-- {
		tx := s.entries[s.order[i]]
		if tx.WalletID == walletID {
			matched = append(matched, *copyTx(tx))
		}
	}

	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return []entity.WalletTransaction{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

type fakeWalletStore struct {
	mu        sync.Mutex
	wallets   map[string]*entity.Wallet
	createErr error
	applyErr  error
}

func newFakeWalletStore() *fakeWalletStore {
	return &fakeWalletStore{wallets: map[string]*entity.Wallet{}}
}

func (s *fakeWalletStore) FindByID(ctx context.Context, id string) (*entity.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[id]
	if !ok {
		return nil, nil
	}
	clone := *w
	return &clone, nil
}

func (s *fakeWalletStore) FindByUserID(ctx context.Context, userID string) (*entity.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.wallets {
		if w.UserID == userID {
			clone := *w
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *fakeWalletStore) Create(ctx context.Context, wallet *entity.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	clone := *wallet
	s.wallets[wallet.ID] = &clone
	return nil
}

func (s *fakeWalletStore) ApplySettlement(ctx context.Context, walletID string, snapshot model.BalanceSnapshot, depositedDelta, withdrawnDelta decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applyErr != nil {
		return s.applyErr
	}
	w, ok := s.wallets[walletID]
	if !ok {
		return nil
	}
	w.DepositBalance = snapshot.DepositBalance
	w.WithdrawableBalance = snapshot.WithdrawableBalance
	w.TotalBalance = snapshot.TotalBalance
	w.TotalDeposited = w.TotalDeposited.Add(depositedDelta)
	w.TotalWithdrawn = w.TotalWithdrawn.Add(withdrawnDelta)
	return nil
}

func (s *fakeWalletStore) SetLocked(ctx context.Context, walletID string, locked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.wallets[walletID]; ok {
		w.IsLocked = locked
	}
	return nil
}

type fakeWithdrawalStore struct {
	mu        sync.Mutex
	requests  map[string]*entity.WithdrawalRequest
	order     []string
	createErr error
	markErr   error
}

func newFakeWithdrawalStore() *fakeWithdrawalStore {
	return &fakeWithdrawalStore{requests: map[string]*entity.WithdrawalRequest{}}
}

func (s *fakeWithdrawalStore) Create(ctx context.Context, request *entity.WithdrawalRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	clone := *request
	s.requests[request.ID] = &clone
	s.order = append(s.order, request.ID)
	return nil
}

func (s *fakeWithdrawalStore) FindByID(ctx context.Context, id string) (*entity.WithdrawalRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return nil, nil
	}
	clone := *r
	return &clone, nil
}

func (s *fakeWithdrawalStore) MarkProcessed(ctx context.Context, id string, status entity.WithdrawalStatus, adminID string, reason *string, processedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.markErr != nil {
		return false, s.markErr
	}
	r, ok := s.requests[id]
	if !ok || r.Status != entity.WithdrawalStatusPending {
		return false, nil
	}
	r.Status = status
	r.ProcessedBy = &adminID
	at := processedAt
	r.ProcessedAt = &at
	r.RejectionReason = reason
	return true, nil
}

func (s *fakeWithdrawalStore) List(ctx context.Context, status string, page, limit int) ([]entity.WithdrawalRequest, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]entity.WithdrawalRequest, 0)
	for i := len(s.order) - 1; i >= 0; i-- {
		r := s.requests[s.order[i]]
		if status != "" && string(r.Status) != status {
			continue
		}
		matched = append(matched, *r)
	}

	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return []entity.WithdrawalRequest{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

type fakePermitStore struct {
	mu        sync.Mutex
	permits   map[string]*entity.VehicleEvp
	order     []string
	createErr error
}

func newFakePermitStore() *fakePermitStore {
	return &fakePermitStore{permits: map[string]*entity.VehicleEvp{}}
}

func (s *fakePermitStore) Create(ctx context.Context, permit *entity.VehicleEvp) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	clone := *permit
	s.permits[permit.ID] = &clone
	s.order = append(s.order, permit.ID)
	return nil
}

func (s *fakePermitStore) FindByID(ctx context.Context, id string) (*entity.VehicleEvp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.permits[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (s *fakePermitStore) FindCurrentByVehicle(ctx context.Context, vehicleID string, now time.Time) (*entity.VehicleEvp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.permits {
		if p.VehicleID == vehicleID && p.Current(now) {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *fakePermitStore) Revoke(ctx context.Context, id, adminID, reason string, revokedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.permits[id]
	if !ok || p.RevokedAt != nil {
		return false, nil
	}
	p.IsActive = false
	at := revokedAt
	p.RevokedAt = &at
	p.RevokedBy = &adminID
	p.Notes = p.Notes + "\nrevoked: " + reason
	return true, nil
}

func (s *fakePermitStore) List(ctx context.Context, filter *model.ListPermits) ([]entity.VehicleEvp, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]entity.VehicleEvp, 0)
	for i := len(s.order) - 1; i >= 0; i-- {
		p := s.permits[s.order[i]]
		if filter.VehicleID != "" && p.VehicleID != filter.VehicleID {
			continue
		}
		if filter.ActiveOnly && !p.IsActive {
			continue
		}
		matched = append(matched, *p)
	}

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(matched) {
		return []entity.VehicleEvp{}, total, nil
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

type fakeVehicleStore struct {
	vehicles map[string]*entity.Vehicle
}

func (s *fakeVehicleStore) FindByID(ctx context.Context, id string) (*entity.Vehicle, error) {
	v, ok := s.vehicles[id]
	if !ok {
		return nil, nil
	}
	clone := *v
	return &clone, nil
}

type fakeUserStore struct {
	users map[string]*entity.User
}

func (s *fakeUserStore) FindByID(ctx context.Context, id string) (*entity.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}
