package domain

import (
	"encoding/json"
	"time"

	"rbi-data/internal/sectoral"
)

// Resident domain model (residents table).
// One row per registered inhabitant of a barangay within the tenant LGU.
type Resident struct {
	// keys
	ResidentID string `db:"resident_id" json:"resident_id"` // UUID, PRIMARY KEY
	TenantID   string `db:"tenant_id" json:"tenant_id"`     // UUID, NOT NULL

	// placement
	BarangayCode string  `db:"barangay_code" json:"barangay_code"`          // CHAR(10) PSGC, NOT NULL
	HouseholdID  *string `db:"household_id" json:"household_id,omitempty"`  // UUID, nullable until assigned

	// identity
	LastName   string     `db:"last_name" json:"last_name"`             // VARCHAR(100), NOT NULL
	FirstName  string     `db:"first_name" json:"first_name"`           // VARCHAR(100), NOT NULL
	MiddleName string     `db:"middle_name" json:"middle_name"`         // VARCHAR(100), nullable
	Suffix     string     `db:"suffix" json:"suffix"`                   // VARCHAR(20), nullable (Jr., III)
	Sex        string     `db:"sex" json:"sex"`                         // VARCHAR(10), NOT NULL (male/female)
	Birthdate  *time.Time `db:"birthdate" json:"birthdate,omitempty"`   // DATE, nullable (age unknown when absent)
	Birthplace string     `db:"birthplace" json:"birthplace"`           // VARCHAR(255), nullable

	// civil/demographic context
	MaritalStatus       string `db:"marital_status" json:"marital_status"`             // VARCHAR(30), nullable
	EmploymentStatus    string `db:"employment_status" json:"employment_status"`       // VARCHAR(50), nullable enum code
	Occupation          string `db:"occupation" json:"occupation"`                     // VARCHAR(100), nullable free text
	EducationAttainment string `db:"education_attainment" json:"education_attainment"` // VARCHAR(50), nullable enum code
	Enrolled            *bool  `db:"enrolled" json:"enrolled,omitempty"`               // BOOLEAN, nullable (unknown on legacy rows)
	Ethnicity           string `db:"ethnicity" json:"ethnicity"`                       // VARCHAR(100), nullable
	Religion            string `db:"religion" json:"religion"`                         // VARCHAR(100), nullable
	Citizenship         string `db:"citizenship" json:"citizenship"`                   // VARCHAR(100), default 'Filipino'

	// voter and residency
	RegisteredVoter bool   `db:"registered_voter" json:"registered_voter"`        // BOOLEAN, NOT NULL, default false
	ResidencyStatus string `db:"residency_status" json:"residency_status"`        // VARCHAR(20) enum (permanent/temporary/transient/visitor)
	YearsOfStay     *int   `db:"years_of_stay" json:"years_of_stay,omitempty"`    // INT, nullable

	// contact hashes (no plaintext contact data stored, never serialized)
	PhoneHash []byte `db:"phone_hash" json:"-"` // BYTEA, nullable
	EmailHash []byte `db:"email_hash" json:"-"` // BYTEA, nullable

	// derived + manual sectoral flags, recomputed on every write
	Sectoral sectoral.SectoralInformation `db:"sectoral" json:"sectoral"` // JSONB, NOT NULL

	// status
	Status string `db:"status" json:"status"` // VARCHAR(30), NOT NULL, default 'active' (active/deceased/moved_out)

	// extension
	Metadata json.RawMessage `db:"metadata" json:"metadata,omitempty"` // JSONB, nullable
	Note     string          `db:"note" json:"note"`                   // TEXT, nullable

	CreatedAt *time.Time `db:"created_at" json:"created_at,omitempty"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// FullName assembles the display name in registry order.
func (r *Resident) FullName() string {
	name := r.FirstName
	if r.MiddleName != "" {
		name += " " + r.MiddleName
	}
	name += " " + r.LastName
	if r.Suffix != "" {
		name += " " + r.Suffix
	}
	return name
}

// SectoralContext builds the derivation input from the stored record.
func (r *Resident) SectoralContext() sectoral.ResidentContext {
	return sectoral.ResidentContext{
		Birthdate:           r.Birthdate,
		EmploymentStatus:    sectoral.ParseEmploymentStatus(r.EmploymentStatus),
		EducationAttainment: sectoral.ParseEducationAttainment(r.EducationAttainment),
		Ethnicity:           r.Ethnicity,
		MaritalStatus:       r.MaritalStatus,
		Enrolled:            r.Enrolled,
	}
}
