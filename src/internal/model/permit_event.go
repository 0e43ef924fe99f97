package model

import "time"

type PermitNotification struct {
	PermitID          string    `json:"permitId"`
	VehicleID         string    `json:"vehicleId"`
	CertificateNumber string    `json:"certificateNumber"`
	StartDate         time.Time `json:"startDate"`
	EndDate           time.Time `json:"endDate"`
	Status            string    `json:"status"`
	Reason            string    `json:"reason,omitempty"`
	AdminID           string    `json:"adminId"`
}

type PermitEvent struct {
	ID      string             `json:"id,omitempty"`
	Message PermitNotification `json:"message,omitempty"`
}

func (e *PermitEvent) GetId() string {
	return e.ID
}
