package converter

import (
	"wallet-service/src/internal/entity"
	"wallet-service/src/internal/model"
)

func PermitToResponse(permit *entity.VehicleEvp) *model.PermitResponse {
	return &model.PermitResponse{
		ID:                permit.ID,
		VehicleID:         permit.VehicleID,
		TransactionID:     permit.TransactionID,
		CertificateNumber: permit.CertificateNumber,
		Price:             permit.Price,
		StartDate:         permit.StartDate,
		EndDate:           permit.EndDate,
		IsActive:          permit.IsActive,
		IssuedBy:          permit.IssuedBy,
		Notes:             permit.Notes,
		RevokedAt:         permit.RevokedAt,
		RevokedBy:         permit.RevokedBy,
		CreatedAt:         permit.CreatedAt,
	}
}

func PermitToEvent(permit *entity.VehicleEvp, status, adminID, reason string) *model.PermitEvent {
	return &model.PermitEvent{
		ID: permit.ID,
		Message: model.PermitNotification{
			PermitID:          permit.ID,
			VehicleID:         permit.VehicleID,
			CertificateNumber: permit.CertificateNumber,
			StartDate:         permit.StartDate,
			EndDate:           permit.EndDate,
			Status:            status,
			Reason:            reason,
			AdminID:           adminID,
		},
	}
}
