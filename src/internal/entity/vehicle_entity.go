package entity

import "database/sql"

// Vehicle is owned by the fleet/document service. The permit workflow only
// reads the documentation-completeness flag.
type Vehicle struct {
	ID                string         `db:"id"`
	OwnerID           string         `db:"owner_id"`
	PlateNumber       string         `db:"plate_number"`
	VehicleType       sql.NullString `db:"vehicle_type"`
	DocumentsComplete bool           `db:"documents_complete"`
}
