package domain

import "time"

// Household domain model (households table).
// Groups residents living at one address within a barangay.
type Household struct {
	HouseholdID string `db:"household_id" json:"household_id"` // UUID, PRIMARY KEY
	TenantID    string `db:"tenant_id" json:"tenant_id"`       // UUID, NOT NULL

	BarangayCode    string `db:"barangay_code" json:"barangay_code"`       // CHAR(10) PSGC, NOT NULL
	HouseholdNumber string `db:"household_number" json:"household_number"` // VARCHAR(50), NOT NULL, UNIQUE(tenant_id, barangay_code, household_number)

	// address within the barangay
	Purok         string `db:"purok" json:"purok"`                   // VARCHAR(100), nullable (purok/sitio/zone)
	StreetAddress string `db:"street_address" json:"street_address"` // VARCHAR(255), nullable

	// head of household, must be an active member
	HeadResidentID *string `db:"head_resident_id" json:"head_resident_id,omitempty"` // UUID, nullable

	// socio-economic bracket for program targeting
	IncomeBracket string `db:"income_bracket" json:"income_bracket"` // VARCHAR(30), nullable

	CreatedAt *time.Time `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// HouseholdWithCount list row with its member count.
type HouseholdWithCount struct {
	Household
	MemberCount int `db:"member_count" json:"member_count"`
}
