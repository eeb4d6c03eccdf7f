package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.True(t, IsEmpty("\t\n"))
	assert.False(t, IsEmpty("x"))
	assert.False(t, IsEmpty(" x "))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("payroll@paygrid.example"))
	assert.True(t, IsValidEmail("first.last+tag@company.co.in"))
	assert.False(t, IsValidEmail("no-at-sign"))
	assert.False(t, IsValidEmail("missing@tld"))
	assert.False(t, IsValidEmail("@nobody.example"))
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("018f4e5a-1234-7abc-8def-0123456789ab"))
	// uppercase is accepted
	assert.True(t, IsValidUUID("018F4E5A-1234-7ABC-8DEF-0123456789AB"))
	// wrong version nibble
	assert.False(t, IsValidUUID("018f4e5a-1234-4abc-8def-0123456789ab"))
	assert.False(t, IsValidUUID("not-a-uuid"))
}

func TestIsValidDate(t *testing.T) {
	d, ok := IsValidDate("2025-04-30")
	assert.True(t, ok)
	assert.Equal(t, 2025, d.Year())

	_, ok = IsValidDate("30-04-2025")
	assert.False(t, ok)

	_, ok = IsValidDate("2025-02-30")
	assert.False(t, ok)
}

func TestIsValidStateCode(t *testing.T) {
	assert.True(t, IsValidStateCode("KA"))
	assert.True(t, IsValidStateCode("MH"))
	assert.False(t, IsValidStateCode("ka"))
	assert.False(t, IsValidStateCode("KAR"))
	assert.False(t, IsValidStateCode(""))
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "month", Message: "Month must be between 1 and 12"},
		{Field: "year", Message: "Year is out of range"},
	}

	assert.Contains(t, errs.Error(), "month: Month must be between 1 and 12")
	assert.Contains(t, errs.Error(), "year: Year is out of range")

	m := errs.ToMap()
	assert.Len(t, m, 2)
	assert.Equal(t, "Year is out of range", m["year"])
}
