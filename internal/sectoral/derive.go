package sectoral

import "time"

// senior-citizen threshold per RA 9994
const seniorCitizenAge = 60

// Derive recomputes the derived flags from ctx and carries the manual flags
// over from prev. Pure and idempotent: the same (prev, ctx, now) always
// yields the same record, so callers may re-derive on every field change.
//
// Unknown age leaves every age-dependent flag false.
func Derive(prev SectoralInformation, ctx ResidentContext, now time.Time) SectoralInformation {
	out := SectoralInformation{
		// manual flags survive recomputation untouched
		IsOverseasFilipinoWorker:  prev.IsOverseasFilipinoWorker,
		IsPersonWithDisability:    prev.IsPersonWithDisability,
		IsRegisteredSeniorCitizen: prev.IsRegisteredSeniorCitizen,
		IsSoloParent:              prev.IsSoloParent,
		IsMigrant:                 prev.IsMigrant,
	}

	emp := ClassifyEmployment(ctx.EmploymentStatus)
	out.IsLaborForceEmployed = emp.Employed
	out.IsUnemployed = emp.Unemployed
	out.IsIndigenousPeople = IsIndigenous(ctx.Ethnicity)

	if age, ok := ctx.ResolveAge(now); ok {
		out.IsSeniorCitizen = age >= seniorCitizenAge
		sc := ClassifySchooling(age, ctx.EmploymentStatus, ctx.EducationAttainment, ctx.Enrolled)
		out.IsOutOfSchoolChildren = sc.OutOfSchoolChildren
		out.IsOutOfSchoolYouth = sc.OutOfSchoolYouth
	}

	return out
}

// SeniorRegistrationInconsistent flags a registered-senior-citizen entry for
// a resident whose age is below the senior threshold. Data-entry warning
// only; registration itself is a manual flag and never auto-cleared.
func SeniorRegistrationInconsistent(info SectoralInformation, age int, ageKnown bool) bool {
	return info.IsRegisteredSeniorCitizen && ageKnown && age < seniorCitizenAge
}
