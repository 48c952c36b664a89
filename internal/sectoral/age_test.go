package sectoral

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculateAge_BeforeAndAfterBirthday(t *testing.T) {
	birth := date(1990, time.June, 15)

	age, ok := CalculateAge(birth, date(2024, time.June, 14))
	assert.True(t, ok)
	assert.Equal(t, 33, age)

	age, ok = CalculateAge(birth, date(2024, time.June, 15))
	assert.True(t, ok)
	assert.Equal(t, 34, age)

	age, ok = CalculateAge(birth, date(2024, time.June, 16))
	assert.True(t, ok)
	assert.Equal(t, 34, age)
}

func TestCalculateAge_LeapYearBirthdate(t *testing.T) {
	birth := date(2000, time.February, 29)

	// 2024-02-28: the 2024 birthday has not happened yet
	age, ok := CalculateAge(birth, date(2024, time.February, 28))
	assert.True(t, ok)
	assert.Equal(t, 23, age)

	age, ok = CalculateAge(birth, date(2024, time.February, 29))
	assert.True(t, ok)
	assert.Equal(t, 24, age)

	// non-leap year: birthday counted from March 1
	age, ok = CalculateAge(birth, date(2023, time.February, 28))
	assert.True(t, ok)
	assert.Equal(t, 22, age)
	age, ok = CalculateAge(birth, date(2023, time.March, 1))
	assert.True(t, ok)
	assert.Equal(t, 23, age)
}

func TestCalculateAge_ImplausibleDates(t *testing.T) {
	now := date(2024, time.June, 1)

	_, ok := CalculateAge(date(2025, time.January, 1), now)
	assert.False(t, ok, "future birthdate")

	_, ok = CalculateAge(date(1899, time.December, 31), now)
	assert.False(t, ok, "birth year before 1900")

	_, ok = CalculateAge(date(2024, time.June, 2), now)
	assert.False(t, ok, "birthdate tomorrow")

	age, ok := CalculateAge(date(2024, time.June, 1), now)
	assert.True(t, ok, "born today")
	assert.Equal(t, 0, age)
}

func TestResolveAge_ExplicitAgeWins(t *testing.T) {
	now := date(2024, time.June, 1)
	age := 40
	birth := date(2000, time.January, 1)

	got, ok := ResidentContext{Age: &age, Birthdate: &birth}.ResolveAge(now)
	assert.True(t, ok)
	assert.Equal(t, 40, got)

	got, ok = ResidentContext{Birthdate: &birth}.ResolveAge(now)
	assert.True(t, ok)
	assert.Equal(t, 24, got)

	_, ok = ResidentContext{}.ResolveAge(now)
	assert.False(t, ok, "no age and no birthdate is unknown")

	neg := -1
	_, ok = ResidentContext{Age: &neg}.ResolveAge(now)
	assert.False(t, ok)
}
