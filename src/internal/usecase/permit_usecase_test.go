package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/gateway/messaging"
	"wallet-service/src/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type permitFixture struct {
	usecase      *PermitUseCase
	transactions *fakeTransactionStore
	permits      *fakePermitStore
	vehicles     *fakeVehicleStore
}

func newPermitFixture(t *testing.T, now time.Time) *permitFixture {
	t.Helper()
	logger := testLogger()
	transactions := newFakeTransactionStore()
	permits := newFakePermitStore()
	vehicles := &fakeVehicleStore{vehicles: map[string]*entity.Vehicle{
		"vehicle-1": {ID: "vehicle-1", OwnerID: "user-1", PlateNumber: "WXY 1234", DocumentsComplete: true},
		"vehicle-2": {ID: "vehicle-2", OwnerID: "user-2", PlateNumber: "WXY 5678", DocumentsComplete: true},
		"vehicle-3": {ID: "vehicle-3", OwnerID: "user-3", PlateNumber: "WXY 9012", DocumentsComplete: false},
	}}

	uc := NewPermitUseCase(
		logger,
		validator.New(),
		transactions,
		permits,
		vehicles,
		messaging.NewPermitProducer(nil, logger),
		nil,
	)
	uc.now = func() time.Time { return now }

	return &permitFixture{
		usecase:      uc,
		transactions: transactions,
		permits:      permits,
		vehicles:     vehicles,
	}
}

func (f *permitFixture) seedPayment(t *testing.T, status entity.TransactionStatus) *entity.WalletTransaction {
	t.Helper()
	now := time.Now()
	tx := &entity.WalletTransaction{
		ID:          uuid.NewString(),
		Reference:   newReference(now),
		UserID:      "user-1",
		WalletID:    "wallet-1",
		Type:        entity.TransactionTypeDebit,
		Category:    entity.CategoryPermitPayment,
		BalanceType: entity.BalanceTypeDeposit,
		Status:      status,
		Amount:      dec("150"),
		CreatedAt:   now,
	}
	if status == entity.TransactionStatusCompleted {
		tx.CompletedAt = &now
	}
	require.NoError(t, f.transactions.Create(context.Background(), tx))
	return tx
}

func issuePermitRequest(paymentID string) *model.IssuePermit {
	return &model.IssuePermit{
		VehicleID:            "vehicle-1",
		PaymentTransactionID: paymentID,
		CertificateNumber:    "EVP-2025-0001",
		StartDate:            "2025-03-10",
		EndDate:              "2026-03-10",
		AdminID:              "admin-1",
	}
}

var permitTestNow = time.Date(2025, time.March, 10, 14, 0, 0, 0, time.Local)

func TestPermitIssue_ConsumesPaymentAndCreatesPermit(t *testing.T) {
	f := newPermitFixture(t, permitTestNow)
	payment := f.seedPayment(t, entity.TransactionStatusCompleted)

	result := f.usecase.Issue(context.Background(), issuePermitRequest(payment.ID))
	require.NoError(t, result.Error)

	response, ok := result.Data.(*model.PermitResponse)
	require.True(t, ok)
	assert.True(t, response.IsActive)
	assert.Equal(t, "vehicle-1", response.VehicleID)
	assert.Equal(t, payment.ID, response.TransactionID)
	assert.True(t, response.Price.Equal(dec("150")))
	assert.Equal(t, "admin-1", response.IssuedBy)

	// the payment now points at the permit that spent it
	stored, err := f.transactions.FindByID(context.Background(), payment.ID)
	require.NoError(t, err)
	permitID, consumed := stored.ConsumedBy()
	require.True(t, consumed)
	assert.Equal(t, response.ID, permitID)
}

func TestPermitIssue_PaymentChecks(t *testing.T) {
	f := newPermitFixture(t, permitTestNow)

	t.Run("payment not found", func(t *testing.T) {
		result := f.usecase.Issue(context.Background(), issuePermitRequest("missing"))
		require.Error(t, result.Error)
		assert.Equal(t, fiber.StatusNotFound, httpCode(t, result.Error))
	})

	t.Run("wrong category", func(t *testing.T) {
		ride := f.seedPayment(t, entity.TransactionStatusCompleted)
		f.transactions.mu.Lock()
		f.transactions.entries[ride.ID].Category = entity.CategoryRide
		f.transactions.mu.Unlock()

		result := f.usecase.Issue(context.Background(), issuePermitRequest(ride.ID))
		require.Error(t, result.Error)
		assert.Equal(t, fiber.StatusUnprocessableEntity, httpCode(t, result.Error))
	})

	t.Run("payment still pending", func(t *testing.T) {
		pending := f.seedPayment(t, entity.TransactionStatusPending)
		result := f.usecase.Issue(context.Background(), issuePermitRequest(pending.ID))
		require.Error(t, result.Error)
		assert.Equal(t, fiber.StatusUnprocessableEntity, httpCode(t, result.Error))
	})

	t.Run("payment already consumed", func(t *testing.T) {
		consumed := f.seedPayment(t, entity.TransactionStatusCompleted)
		won, err := f.transactions.MarkConsumed(context.Background(), consumed.ID, "permit-elsewhere")
		require.NoError(t, err)
		require.True(t, won)

		result := f.usecase.Issue(context.Background(), issuePermitRequest(consumed.ID))
		require.Error(t, result.Error)
		assert.Equal(t, fiber.StatusConflict, httpCode(t, result.Error))
		assert.Equal(t, ErrPaymentAlreadyConsumed.Error(), result.Error.Error())
	})
}

func TestPermitIssue_VehicleChecks(t *testing.T) {
	f := newPermitFixture(t, permitTestNow)

	t.Run("vehicle not found", func(t *testing.T) {
		payment := f.seedPayment(t, entity.TransactionStatusCompleted)
		request := issuePermitRequest(payment.ID)
		request.VehicleID = "ghost"
		result := f.usecase.Issue(context.Background(), request)
		require.Error(t, result.Error)
		assert.Equal(t, fiber.StatusNotFound, httpCode(t, result.Error))
	})

	t.Run("documents incomplete", func(t *testing.T) {
		payment := f.seedPayment(t, entity.TransactionStatusCompleted)
		request := issuePermitRequest(payment.ID)
		request.VehicleID = "vehicle-3"
		result := f.usecase.Issue(context.Background(), request)
		require.Error(t, result.Error)
		assert.Equal(t, fiber.StatusUnprocessableEntity, httpCode(t, result.Error))
		assert.Equal(t, ErrPrerequisiteNotMet.Error(), result.Error.Error())

		// the payment must not be consumed by a rejected issuance
		stored, err := f.transactions.FindByID(context.Background(), payment.ID)
		require.NoError(t, err)
		_, consumed := stored.ConsumedBy()
		assert.False(t, consumed)
	})
}

func TestPermitIssue_ActivePermitBlocksSecondIssue(t *testing.T) {
	f := newPermitFixture(t, permitTestNow)

	first := f.seedPayment(t, entity.TransactionStatusCompleted)
	require.NoError(t, f.usecase.Issue(context.Background(), issuePermitRequest(first.ID)).Error)

	second := f.seedPayment(t, entity.TransactionStatusCompleted)
	result := f.usecase.Issue(context.Background(), issuePermitRequest(second.ID))
	require.Error(t, result.Error)
	assert.Equal(t, fiber.StatusConflict, httpCode(t, result.Error))
	assert.Equal(t, ErrActivePermitExists.Error(), result.Error.Error())
}

func TestPermitIssue_WindowValidation(t *testing.T) {
	tests := []struct {
		name      string
		startDate string
		endDate   string
	}{
		{"end equals start", "2025-03-10", "2025-03-10"},
		{"end before start", "2025-06-01", "2025-05-01"},
		{"start in the past", "2025-03-09", "2026-03-09"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPermitFixture(t, permitTestNow)
			payment := f.seedPayment(t, entity.TransactionStatusCompleted)

			request := issuePermitRequest(payment.ID)
			request.StartDate = tt.startDate
			request.EndDate = tt.endDate

			result := f.usecase.Issue(context.Background(), request)
			require.Error(t, result.Error)
			assert.Equal(t, fiber.StatusBadRequest, httpCode(t, result.Error))

			stored, err := f.transactions.FindByID(context.Background(), payment.ID)
			require.NoError(t, err)
			_, consumed := stored.ConsumedBy()
			assert.False(t, consumed)
		})
	}
}

func TestPermitIssue_StartTodayAllowed(t *testing.T) {
	// day granularity: issuing in the afternoon for a window starting today
	f := newPermitFixture(t, permitTestNow)
	payment := f.seedPayment(t, entity.TransactionStatusCompleted)

	request := issuePermitRequest(payment.ID)
	request.StartDate = "2025-03-10"
	request.EndDate = "2025-09-10"

	result := f.usecase.Issue(context.Background(), request)
	assert.NoError(t, result.Error)
}

func TestPermitIssue_ConcurrentSamePaymentIssuesOnce(t *testing.T) {
	f := newPermitFixture(t, permitTestNow)
	payment := f.seedPayment(t, entity.TransactionStatusCompleted)

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			request := issuePermitRequest(payment.ID)
			request.VehicleID = fmt.Sprintf("vehicle-%d", i+1)
			results[i] = f.usecase.Issue(context.Background(), request).Error
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		if err == nil {
			winners++
		} else {
			assert.Equal(t, fiber.StatusConflict, httpCode(t, err))
		}
	}
	assert.Equal(t, 1, winners)

	// exactly one permit row exists
	permits, total, err := f.permits.List(context.Background(), &model.ListPermits{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, permits, 1)

	stored, err := f.transactions.FindByID(context.Background(), payment.ID)
	require.NoError(t, err)
	permitID, consumed := stored.ConsumedBy()
	require.True(t, consumed)
	assert.Equal(t, permits[0].ID, permitID)
}

func TestPermitIssue_CreateFailureLeavesMarkerForReconciliation(t *testing.T) {
	f := newPermitFixture(t, permitTestNow)
	payment := f.seedPayment(t, entity.TransactionStatusCompleted)
	f.permits.createErr = assert.AnError

	result := f.usecase.Issue(context.Background(), issuePermitRequest(payment.ID))
	require.Error(t, result.Error)
	assert.Equal(t, fiber.StatusInternalServerError, httpCode(t, result.Error))

	// the marker is never rolled back: undoing it could hand the payment to a
	// second permit
	stored, err := f.transactions.FindByID(context.Background(), payment.ID)
	require.NoError(t, err)
	_, consumed := stored.ConsumedBy()
	assert.True(t, consumed)
}

func TestPermitRevoke(t *testing.T) {
	f := newPermitFixture(t, permitTestNow)
	payment := f.seedPayment(t, entity.TransactionStatusCompleted)

	result := f.usecase.Issue(context.Background(), issuePermitRequest(payment.ID))
	require.NoError(t, result.Error)
	permitID := result.Data.(*model.PermitResponse).ID

	result = f.usecase.Revoke(context.Background(), &model.RevokePermit{
		PermitID: permitID,
		AdminID:  "admin-2",
		Reason:   "vehicle sold",
	})
	require.NoError(t, result.Error)

	revoked := result.Data.(*model.PermitResponse)
	assert.False(t, revoked.IsActive)
	require.NotNil(t, revoked.RevokedAt)
	require.NotNil(t, revoked.RevokedBy)
	assert.Equal(t, "admin-2", *revoked.RevokedBy)
	assert.Contains(t, revoked.Notes, "vehicle sold")

	// revoking again conflicts
	result = f.usecase.Revoke(context.Background(), &model.RevokePermit{
		PermitID: permitID,
		AdminID:  "admin-2",
		Reason:   "again",
	})
	require.Error(t, result.Error)
	assert.Equal(t, fiber.StatusConflict, httpCode(t, result.Error))

	// the vehicle can get a new permit once the old one is revoked
	next := f.seedPayment(t, entity.TransactionStatusCompleted)
	result = f.usecase.Issue(context.Background(), issuePermitRequest(next.ID))
	assert.NoError(t, result.Error)
}

func TestPermitRevoke_NotFound(t *testing.T) {
	f := newPermitFixture(t, permitTestNow)

	result := f.usecase.Revoke(context.Background(), &model.RevokePermit{
		PermitID: "missing",
		AdminID:  "admin-1",
		Reason:   "whatever",
	})
	require.Error(t, result.Error)
	assert.Equal(t, fiber.StatusNotFound, httpCode(t, result.Error))
}

func TestPermitIssue_ValidationErrors(t *testing.T) {
	f := newPermitFixture(t, permitTestNow)

	result := f.usecase.Issue(context.Background(), &model.IssuePermit{})
	require.Error(t, result.Error)
	assert.Equal(t, fiber.StatusBadRequest, httpCode(t, result.Error))

	// malformed dates are caught before any lookup
	result = f.usecase.Issue(context.Background(), &model.IssuePermit{
		VehicleID:            "vehicle-1",
		PaymentTransactionID: "tx-1",
		CertificateNumber:    "EVP-1",
		StartDate:            "10-03-2025",
		EndDate:              "2026-03-10",
		AdminID:              "admin-1",
	})
	require.Error(t, result.Error)
	assert.Equal(t, fiber.StatusBadRequest, httpCode(t, result.Error))
}
