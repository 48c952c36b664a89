package sectoral

import "time"

// earliest plausible birth year for registry records
const minBirthYear = 1900

// CalculateAge returns the age in whole years at now. ok is false for future
// birthdates and years outside [1900, now.Year()]; callers treat that as
// "unknown", not zero.
//
// The month/day tuple comparison (rather than day-of-year) keeps Feb 29
// birthdates correct in non-leap years.
func CalculateAge(birthdate, now time.Time) (int, bool) {
	if birthdate.Year() < minBirthYear || birthdate.Year() > now.Year() {
		return 0, false
	}
	if birthdate.After(now) {
		return 0, false
	}

	age := now.Year() - birthdate.Year()
	bm, bd := birthdate.Month(), birthdate.Day()
	nm, nd := now.Month(), now.Day()
	if nm < bm || (nm == bm && nd < bd) {
		age--
	}
	if age < 0 {
		return 0, false
	}
	return age, true
}
