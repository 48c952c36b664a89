package sectoral

import "strings"

// laborForceIncludesNonSearching controls whether unemployed residents who
// are not actively looking for work count toward the labor force. The PSA
// labor-force definition excludes them; the legacy registry counted them.
// Kept true to match observed behavior until a domain review decides
// otherwise.
const laborForceIncludesNonSearching = true

var employedStatuses = map[EmploymentStatus]bool{
	EmployedFullTime: true,
	EmployedPartTime: true,
	SelfEmployed:     true,
}

var unemployedStatuses = map[EmploymentStatus]bool{
	UnemployedLooking:    true,
	UnemployedNotLooking: true,
}

// EmploymentClass labor-force membership booleans for one status value.
type EmploymentClass struct {
	LaborForce bool
	Employed   bool
	Unemployed bool
}

// ClassifyEmployment maps an employment status to labor-force booleans.
// Unknown status yields all false.
func ClassifyEmployment(status EmploymentStatus) EmploymentClass {
	c := EmploymentClass{
		Employed:   employedStatuses[status],
		Unemployed: unemployedStatuses[status],
	}
	switch {
	case c.Employed:
		c.LaborForce = true
	case status == UnemployedLooking:
		c.LaborForce = true
	case status == UnemployedNotLooking:
		c.LaborForce = laborForceIncludesNonSearching
	}
	return c
}

// indigenousEthnicities recognized indigenous-people groups (NCIP listing,
// lowercase). Membership is matched case-insensitively.
var indigenousEthnicities = map[string]bool{
	"aeta":     true,
	"agta":     true,
	"ati":      true,
	"badjao":   true,
	"blaan":    true,
	"bontoc":   true,
	"higaonon": true,
	"ibaloi":   true,
	"ifugao":   true,
	"igorot":   true,
	"ilongot":  true,
	"kalinga":  true,
	"kankanaey": true,
	"lumad":    true,
	"mangyan":  true,
	"manobo":   true,
	"mandaya":  true,
	"subanen":  true,
	"tagbanwa": true,
	"tboli":    true,
	"tumandok": true,
	"yakan":    true,
}

// IsIndigenous reports indigenous-people membership for an ethnicity code.
// Unknown or empty ethnicity is not indigenous.
func IsIndigenous(ethnicity string) bool {
	return indigenousEthnicities[strings.ToLower(strings.TrimSpace(ethnicity))]
}

// tertiaryOrHigher attainments that exclude a resident from the
// out-of-school-youth band.
var tertiaryOrHigher = map[EducationAttainment]bool{
	VocationalGraduate: true,
	CollegeGraduate:    true,
	PostgraduateDegree: true,
}

// Out-of-school age bands, inclusive on both ends.
const (
	oscMinAge = 5
	oscMaxAge = 17
	osyMinAge = 18
	osyMaxAge = 30
)

// SchoolingClass out-of-school classification for one context.
type SchoolingClass struct {
	OutOfSchoolChildren bool
	OutOfSchoolYouth    bool
}

// ClassifySchooling derives the out-of-school flags. The bands are disjoint
// (5-17 vs 18-30) so at most one flag is set. enrolled nil falls back to
// inferring enrollment from the student employment status; the registry has
// no dedicated enrollment field on older records.
func ClassifySchooling(age int, status EmploymentStatus, attainment EducationAttainment, enrolled *bool) SchoolingClass {
	inSchool := status == EmploymentStudent
	if enrolled != nil {
		inSchool = *enrolled
	}

	employed := employedStatuses[status]

	var c SchoolingClass
	switch {
	case age >= oscMinAge && age <= oscMaxAge:
		c.OutOfSchoolChildren = !employed && !inSchool
	case age >= osyMinAge && age <= osyMaxAge:
		c.OutOfSchoolYouth = !employed && !inSchool && !tertiaryOrHigher[attainment]
	}
	return c
}
