package domain

// PSGC reference models. Global reference data published by the PSA, not
// tenant-scoped. Codes are 10-digit PSGC strings; the hierarchy link is the
// parent code column.

// Region (psgc_regions table).
type Region struct {
	Code string `db:"code" json:"code"` // CHAR(10), PRIMARY KEY
	Name string `db:"name" json:"name"` // VARCHAR(255), NOT NULL (e.g. "Region IV-A (CALABARZON)")
}

// Province (psgc_provinces table). NCR districts are carried as
// pseudo-provinces the way the PSA publication does.
type Province struct {
	Code       string `db:"code" json:"code"`               // CHAR(10), PRIMARY KEY
	RegionCode string `db:"region_code" json:"region_code"` // CHAR(10), NOT NULL
	Name       string `db:"name" json:"name"`               // VARCHAR(255), NOT NULL
}

// City city or municipality (psgc_cities table).
type City struct {
	Code         string `db:"code" json:"code"`                   // CHAR(10), PRIMARY KEY
	ProvinceCode string `db:"province_code" json:"province_code"` // CHAR(10), NOT NULL
	Name         string `db:"name" json:"name"`                   // VARCHAR(255), NOT NULL
	CityClass    string `db:"city_class" json:"city_class"`       // VARCHAR(30), nullable (HUC/CC/ICC/Mun)
	IncomeClass  string `db:"income_class" json:"income_class"`   // VARCHAR(30), nullable (1st..6th)
}

// Barangay (psgc_barangays table).
type Barangay struct {
	Code     string `db:"code" json:"code"`            // CHAR(10), PRIMARY KEY
	CityCode string `db:"city_code" json:"city_code"`  // CHAR(10), NOT NULL
	Name     string `db:"name" json:"name"`            // VARCHAR(255), NOT NULL
	Urban    *bool  `db:"urban" json:"urban,omitempty"` // BOOLEAN, nullable (urban/rural marker where published)
}

// PSGCMatch one autocomplete hit with enough context to render a full
// address line without extra lookups.
type PSGCMatch struct {
	Code         string `db:"code" json:"code"`
	Name         string `db:"name" json:"name"`
	Level        string `db:"level" json:"level"` // region/province/city/barangay
	CityName     string `db:"city_name" json:"city_name,omitempty"`
	ProvinceName string `db:"province_name" json:"province_name,omitempty"`
	RegionName   string `db:"region_name" json:"region_name,omitempty"`
}
