package domain

import "encoding/json"

// Tenant domain model (tenants table). One tenant per LGU (city or
// municipality) running its own RBI.
type Tenant struct {
	TenantID string `db:"tenant_id" json:"tenant_id"` // UUID, PRIMARY KEY

	TenantName string `db:"tenant_name" json:"tenant_name"` // VARCHAR(255), NOT NULL (LGU name)
	CityCode   string `db:"city_code" json:"city_code"`     // CHAR(10) PSGC, nullable, UNIQUE
	Email      string `db:"email" json:"email"`             // VARCHAR(255), nullable
	Phone      string `db:"phone" json:"phone"`             // VARCHAR(50), nullable

	Status string `db:"status" json:"status"` // VARCHAR(50), DEFAULT 'active' (active/suspended/deleted)

	Metadata json.RawMessage `db:"metadata" json:"metadata,omitempty"` // JSONB, nullable
}
