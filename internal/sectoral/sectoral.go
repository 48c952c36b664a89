// Package sectoral derives government sectoral-classification flags for a
// resident from demographic context. All functions are pure: no I/O, no
// hidden state, safe to call on every field change.
package sectoral

import "time"

// EmploymentStatus closed enumeration of employment-status codes.
type EmploymentStatus string

const (
	EmploymentUnknown      EmploymentStatus = ""
	EmployedFullTime       EmploymentStatus = "employed_full_time"
	EmployedPartTime       EmploymentStatus = "employed_part_time"
	SelfEmployed           EmploymentStatus = "self_employed"
	UnemployedLooking      EmploymentStatus = "unemployed_looking"
	UnemployedNotLooking   EmploymentStatus = "unemployed_not_looking"
	EmploymentRetired      EmploymentStatus = "retired"
	EmploymentStudent      EmploymentStatus = "student"
	EmploymentHomemaker    EmploymentStatus = "homemaker"
	EmploymentUnableToWork EmploymentStatus = "disabled"
	EmploymentOther        EmploymentStatus = "other"
)

// ParseEmploymentStatus maps a stored code to the enum; unrecognized codes
// map to EmploymentUnknown rather than failing.
func ParseEmploymentStatus(s string) EmploymentStatus {
	switch EmploymentStatus(s) {
	case EmployedFullTime, EmployedPartTime, SelfEmployed,
		UnemployedLooking, UnemployedNotLooking,
		EmploymentRetired, EmploymentStudent, EmploymentHomemaker,
		EmploymentUnableToWork, EmploymentOther:
		return EmploymentStatus(s)
	}
	return EmploymentUnknown
}

// EducationAttainment closed enumeration of highest-grade-completed codes.
type EducationAttainment string

const (
	EducationUnknown     EducationAttainment = ""
	NoGradeCompleted     EducationAttainment = "no_grade"
	ElementaryLevel      EducationAttainment = "elementary_level"
	ElementaryGraduate   EducationAttainment = "elementary_graduate"
	HighSchoolLevel      EducationAttainment = "high_school_level"
	HighSchoolGraduate   EducationAttainment = "high_school_graduate"
	VocationalLevel      EducationAttainment = "vocational_level"
	VocationalGraduate   EducationAttainment = "vocational_graduate"
	CollegeLevel         EducationAttainment = "college_level"
	CollegeGraduate      EducationAttainment = "college_graduate"
	PostgraduateDegree   EducationAttainment = "postgraduate"
)

// ParseEducationAttainment maps a stored code to the enum; unrecognized codes
// map to EducationUnknown.
func ParseEducationAttainment(s string) EducationAttainment {
	switch EducationAttainment(s) {
	case NoGradeCompleted, ElementaryLevel, ElementaryGraduate,
		HighSchoolLevel, HighSchoolGraduate,
		VocationalLevel, VocationalGraduate,
		CollegeLevel, CollegeGraduate, PostgraduateDegree:
		return EducationAttainment(s)
	}
	return EducationUnknown
}

// ResidencyStatus manually-selected residency classification. No derivation.
type ResidencyStatus string

const (
	ResidencyPermanent ResidencyStatus = "permanent"
	ResidencyTemporary ResidencyStatus = "temporary"
	ResidencyTransient ResidencyStatus = "transient"
	ResidencyVisitor   ResidencyStatus = "visitor"
)

// ResidentContext is the evaluation input, assembled per call from the
// resident record being edited. Age wins over Birthdate when both are set.
type ResidentContext struct {
	Age                 *int
	Birthdate           *time.Time
	EmploymentStatus    EmploymentStatus
	EducationAttainment EducationAttainment
	Ethnicity           string
	MaritalStatus       string // informational only, never auto-derived from

	// Enrolled is the explicit in-school flag. When nil the schooling rules
	// fall back to inferring enrollment from EmploymentStatus == student.
	Enrolled *bool
}

// ResolveAge returns the age in whole years at now, preferring the explicit
// Age field. ok is false when neither field yields a plausible age.
func (c ResidentContext) ResolveAge(now time.Time) (int, bool) {
	if c.Age != nil {
		if *c.Age < 0 {
			return 0, false
		}
		return *c.Age, true
	}
	if c.Birthdate != nil {
		return CalculateAge(*c.Birthdate, now)
	}
	return 0, false
}

// SectoralInformation is the persisted flag record. JSON field names match
// the residents.sectoral JSONB column.
type SectoralInformation struct {
	// Derived flags: recomputed on every Derive call, manual edits discarded.
	IsLaborForceEmployed  bool `json:"is_labor_force_employed"`
	IsUnemployed          bool `json:"is_unemployed"`
	IsOutOfSchoolChildren bool `json:"is_out_of_school_children"`
	IsOutOfSchoolYouth    bool `json:"is_out_of_school_youth"`
	IsSeniorCitizen       bool `json:"is_senior_citizen"`
	IsIndigenousPeople    bool `json:"is_indigenous_people"`

	// Manual flags: preserved across recomputation, never reset implicitly.
	IsOverseasFilipinoWorker  bool `json:"is_overseas_filipino_worker"`
	IsPersonWithDisability    bool `json:"is_person_with_disability"`
	IsRegisteredSeniorCitizen bool `json:"is_registered_senior_citizen"`
	IsSoloParent              bool `json:"is_solo_parent"`
	IsMigrant                 bool `json:"is_migrant"`
}
