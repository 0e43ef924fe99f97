package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// VehicleEvp is a time-boxed operating permit issued for a vehicle by
// consuming exactly one completed PERMIT_PAYMENT ledger entry. Permits are
// revoked, never deleted.
type VehicleEvp struct {
	ID                string          `json:"id" db:"id"`
	VehicleID         string          `json:"vehicleId" db:"vehicle_id"`
	TransactionID     string          `json:"transactionId" db:"transaction_id"`
	CertificateNumber string          `json:"certificateNumber" db:"certificate_number"`
	Price             decimal.Decimal `json:"price" db:"price"`
	StartDate         time.Time       `json:"startDate" db:"start_date"`
	EndDate           time.Time       `json:"endDate" db:"end_date"`
	IsActive          bool            `json:"isActive" db:"is_active"`
	IssuedBy          string          `json:"issuedBy" db:"issued_by"`
	Notes             string          `json:"notes" db:"notes"`
	RevokedAt         *time.Time      `json:"revokedAt,omitempty" db:"revoked_at"`
	RevokedBy         *string         `json:"revokedBy,omitempty" db:"revoked_by"`
	CreatedAt         time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time       `json:"updatedAt" db:"updated_at"`
}

// Current reports whether the permit still blocks issuing another one.
func (p *VehicleEvp) Current(now time.Time) bool {
	return p.IsActive && p.RevokedAt == nil && p.EndDate.After(now)
}
