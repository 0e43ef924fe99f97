package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type IssuePermit struct {
	VehicleID            string `json:"vehicleId" validate:"required"`
	PaymentTransactionID string `json:"paymentTransactionId" validate:"required"`
	CertificateNumber    string `json:"certificateNumber" validate:"required"`
	StartDate            string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate              string `json:"endDate" validate:"required,datetime=2006-01-02"`
	AdminID              string `json:"adminId" validate:"required"`
}

type RevokePermit struct {
	PermitID string `json:"permitId" validate:"required"`
	AdminID  string `json:"adminId" validate:"required"`
	Reason   string `json:"reason" validate:"required"`
}

type ListPermits struct {
	VehicleID  string `json:"vehicleId"`
	ActiveOnly bool   `json:"activeOnly"`
	Page       int    `json:"page" validate:"omitempty,min=1"`
	Limit      int    `json:"limit" validate:"omitempty,min=1,max=100"`
}

type PermitResponse struct {
	ID                string          `json:"id"`
	VehicleID         string          `json:"vehicleId"`
	TransactionID     string          `json:"transactionId"`
	CertificateNumber string          `json:"certificateNumber"`
	Price             decimal.Decimal `json:"price"`
	StartDate         time.Time       `json:"startDate"`
	EndDate           time.Time       `json:"endDate"`
	IsActive          bool            `json:"isActive"`
	IssuedBy          string          `json:"issuedBy"`
	Notes             string          `json:"notes,omitempty"`
	RevokedAt         *time.Time      `json:"revokedAt,omitempty"`
	RevokedBy         *string         `json:"revokedBy,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}
