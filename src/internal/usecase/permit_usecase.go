package usecase

import (
	"context"
	"fmt"
	"time"

	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/gateway/messaging"
	"wallet-service/src/internal/model"
	"wallet-service/src/internal/model/converter"
	"wallet-service/src/internal/repository"
	httpError "wallet-service/src/pkg/http-error"
	"wallet-service/src/pkg/log"
	"wallet-service/src/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const permitDateLayout = "2006-01-02"

type PermitUseCase struct {
	Log              log.Log
	Validate         *validator.Validate
	TransactionStore repository.TransactionStore
	PermitStore      repository.PermitStore
	VehicleStore     repository.VehicleStore
	PermitProducer   *messaging.PermitProducer
	AsynqClient      *asynq.Client

	// now is swappable so the day-granularity window rules are testable
	now func() time.Time
}

func NewPermitUseCase(
	logger log.Log,
	validate *validator.Validate,
	transactionStore repository.TransactionStore,
	permitStore repository.PermitStore,
	vehicleStore repository.VehicleStore,
	permitProducer *messaging.PermitProducer,
	asynqClient *asynq.Client,
) *PermitUseCase {
	return &PermitUseCase{
		Log:              logger,
		Validate:         validate,
		TransactionStore: transactionStore,
		PermitStore:      permitStore,
		VehicleStore:     vehicleStore,
		PermitProducer:   permitProducer,
		AsynqClient:      asynqClient,
		now:              time.Now,
	}
}

// Issue creates a permit by consuming exactly one completed, unconsumed
// PERMIT_PAYMENT entry. The consumption marker write is the commit point: it
// is conditional on the marker being absent, so of two concurrent calls with
// the same payment exactly one issues a permit and the other reads as already
// consumed, without ever creating a duplicate.
func (c *PermitUseCase) Issue(ctx context.Context, request *model.IssuePermit) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		c.Log.Error("permit-usecase", errObj.Message, "Issue", utils.ConvertString(err))
		return result
	}

	payment, err := c.TransactionStore.FindByID(ctx, request.PaymentTransactionID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to load payment transaction"
		result.Error = errObj
		c.Log.Error("permit-usecase", fmt.Sprintf("find payment: %v", err), "Issue", request.PaymentTransactionID)
		return result
	}
	if payment == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = ErrPaymentNotFound.Error()
		result.Error = errObj
		return result
	}
	if payment.Category != entity.CategoryPermitPayment {
		errObj := httpError.NewUnprocessableEntity()
		errObj.Message = "transaction is not a permit payment"
		result.Error = errObj
		return result
	}
	if payment.Status != entity.TransactionStatusCompleted {
		errObj := httpError.NewUnprocessableEntity()
		errObj.Message = ErrPaymentNotCompleted.Error()
		result.Error = errObj
		return result
	}
	if _, consumed := payment.ConsumedBy(); consumed {
		errObj := httpError.NewConflict()
		errObj.Message = ErrPaymentAlreadyConsumed.Error()
		result.Error = errObj
		return result
	}

	vehicle, err := c.VehicleStore.FindByID(ctx, request.VehicleID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to load vehicle"
		result.Error = errObj
		c.Log.Error("permit-usecase", fmt.Sprintf("find vehicle: %v", err), "Issue", request.VehicleID)
		return result
	}
	if vehicle == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = fmt.Sprintf("vehicle %s not found", request.VehicleID)
		result.Error = errObj
		return result
	}
	if !vehicle.DocumentsComplete {
		errObj := httpError.NewUnprocessableEntity()
		errObj.Message = ErrPrerequisiteNotMet.Error()
		result.Error = errObj
		return result
	}

	now := c.now()
	current, err := c.PermitStore.FindCurrentByVehicle(ctx, request.VehicleID, now)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to check existing permits"
		result.Error = errObj
		c.Log.Error("permit-usecase", fmt.Sprintf("find current permit: %v", err), "Issue", request.VehicleID)
		return result
	}
	if current != nil {
		errObj := httpError.NewConflict()
		errObj.Message = ErrActivePermitExists.Error()
		result.Error = errObj
		return result
	}

	startDate, endDate, err := c.parseWindow(request.StartDate, request.EndDate, now)
	if err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = err.Error()
		result.Error = errObj
		return result
	}

	// permit id is generated before the marker write so the consumed payment
	// always points at the permit that spent it
	permitID := uuid.NewString()
	won, err := c.TransactionStore.MarkConsumed(ctx, payment.ID, permitID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to consume payment transaction"
		result.Error = errObj
		c.Log.Error("permit-usecase", fmt.Sprintf("mark consumed: %v", err), "Issue", payment.ID)
		return result
	}
	if !won {
		errObj := httpError.NewConflict()
		errObj.Message = ErrPaymentAlreadyConsumed.Error()
		result.Error = errObj
		return result
	}

	permit := &entity.VehicleEvp{
		ID:                permitID,
		VehicleID:         request.VehicleID,
		TransactionID:     payment.ID,
		CertificateNumber: request.CertificateNumber,
		Price:             payment.Amount,
		StartDate:         startDate,
		EndDate:           endDate,
		IsActive:          true,
		IssuedBy:          request.AdminID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := c.PermitStore.Create(ctx, permit); err != nil {
		// the payment is already marked consumed; undoing the marker here
		// could hand the payment to a second permit, so this is left for
		// manual reconciliation
		c.Log.Fatal("permit-usecase",
			fmt.Sprintf("payment %s consumed but permit %s not created: %v", payment.ID, permitID, err),
			"Issue", payment.Reference)
		enqueueReconcile(c.AsynqClient, c.Log, ReconcilePayload{
			Kind:      "permit-issue",
			EntityID:  permitID,
			RelatedID: payment.ID,
			Detail:    "consumption marker committed, permit row missing",
		})
		errObj := httpError.NewInternalServerError()
		errObj.Message = "payment consumed but permit creation failed; manual reconciliation required"
		result.Error = errObj
		return result
	}

	event := converter.PermitToEvent(permit, "ISSUED", request.AdminID, "")
	if err := c.PermitProducer.SendIssued(event); err != nil {
		c.Log.Error("permit-usecase", fmt.Sprintf("failed to publish issued event: %v", err), "Issue", permit.ID)
	}

	result.Data = converter.PermitToResponse(permit)
	return result
}

func (c *PermitUseCase) Revoke(ctx context.Context, request *model.RevokePermit) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}

	permit, err := c.PermitStore.FindByID(ctx, request.PermitID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to load permit"
		result.Error = errObj
		c.Log.Error("permit-usecase", fmt.Sprintf("find permit: %v", err), "Revoke", request.PermitID)
		return result
	}
	if permit == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = ErrPermitNotFound.Error()
		result.Error = errObj
		return result
	}
	if permit.RevokedAt != nil {
		errObj := httpError.NewConflict()
		errObj.Message = ErrAlreadyRevoked.Error()
		result.Error = errObj
		return result
	}

	now := c.now()
	won, err := c.PermitStore.Revoke(ctx, permit.ID, request.AdminID, request.Reason, now)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to revoke permit"
		result.Error = errObj
		c.Log.Error("permit-usecase", fmt.Sprintf("revoke: %v", err), "Revoke", permit.ID)
		return result
	}
	if !won {
		errObj := httpError.NewConflict()
		errObj.Message = ErrAlreadyRevoked.Error()
		result.Error = errObj
		return result
	}

	permit.IsActive = false
	permit.RevokedAt = &now
	permit.RevokedBy = &request.AdminID
	permit.Notes = permit.Notes + "\nrevoked: " + request.Reason

	event := converter.PermitToEvent(permit, "REVOKED", request.AdminID, request.Reason)
	if err := c.PermitProducer.SendRevoked(event); err != nil {
		c.Log.Error("permit-usecase", fmt.Sprintf("failed to publish revoked event: %v", err), "Revoke", permit.ID)
	}

	result.Data = converter.PermitToResponse(permit)
	return result
}

func (c *PermitUseCase) Detail(ctx context.Context, permitID string) utils.Result {
	var result utils.Result

	permit, err := c.PermitStore.FindByID(ctx, permitID)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to load permit"
		result.Error = errObj
		c.Log.Error("permit-usecase", fmt.Sprintf("find permit: %v", err), "Detail", permitID)
		return result
	}
	if permit == nil {
		errObj := httpError.NewNotFound()
		errObj.Message = ErrPermitNotFound.Error()
		result.Error = errObj
		return result
	}

	result.Data = converter.PermitToResponse(permit)
	return result
}

func (c *PermitUseCase) List(ctx context.Context, request *model.ListPermits) utils.Result {
	var result utils.Result

	if err := c.Validate.Struct(request); err != nil {
		errObj := httpError.NewBadRequest()
		errObj.Message = fmt.Sprintf("validation error: %v", err.Error())
		result.Error = errObj
		return result
	}
	if request.Page < 1 {
		request.Page = 1
	}
	if request.Limit < 1 {
		request.Limit = 20
	}

	permits, total, err := c.PermitStore.List(ctx, request)
	if err != nil {
		errObj := httpError.NewInternalServerError()
		errObj.Message = "failed to list permits"
		result.Error = errObj
		c.Log.Error("permit-usecase", fmt.Sprintf("list: %v", err), "List", "")
		return result
	}

	responses := make([]*model.PermitResponse, 0, len(permits))
	for i := range permits {
		responses = append(responses, converter.PermitToResponse(&permits[i]))
	}

	result.Data = responses
	result.MetaData = model.PageMeta{Page: request.Page, Limit: request.Limit, Total: total}
	return result
}

// parseWindow enforces the validity rules: end strictly after start, start not
// before the current day. Day granularity on purpose: a permit may start today.
func (c *PermitUseCase) parseWindow(start, end string, now time.Time) (time.Time, time.Time, error) {
	startDate, err := time.ParseInLocation(permitDateLayout, start, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid startDate: %w", err)
	}
	endDate, err := time.ParseInLocation(permitDateLayout, end, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid endDate: %w", err)
	}

	if !endDate.After(startDate) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: endDate must be after startDate", ErrInvalidWindow)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if startDate.Before(today) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: startDate must not be in the past", ErrInvalidWindow)
	}

	return startDate, endDate, nil
}
