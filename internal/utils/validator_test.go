package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name  string           `json:"name" validate:"required,max=10"`
	Phone string           `json:"phone" validate:"required,phone"`
	Slug  string           `json:"slug,omitempty" validate:"omitempty,slug"`
	Price *decimal.Decimal `json:"price" validate:"required,min=0"`
}

func validSample() sampleRequest {
	price := decimal.RequireFromString("1500000.00")
	return sampleRequest{Name: "Divan", Phone: "+998901234567", Slug: "yumshoq-divan", Price: &price}
}

func TestValidateStructAcceptsValidInput(t *testing.T) {
	req := validSample()
	assert.NoError(t, ValidateStruct(&req))
}

func TestPhoneValidation(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"+998901234567", true},
		{"912345678", false},
		{"+99890123456", false},
		{"+9989012345678", false},
		{"998901234567", false},
		{"+997901234567", false},
		{"+998 90 123 45 67", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			req := validSample()
			req.Phone = tt.phone
			err := ValidateStruct(&req)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			errs := GetValidationErrors(err)
			require.Len(t, errs, 1)
			assert.Equal(t, "phone", errs[0].Field)
			assert.Equal(t, "phone", errs[0].Tag)
		})
	}
}

func TestNegativeDecimalRejected(t *testing.T) {
	req := validSample()
	negative := decimal.RequireFromString("-0.01")
	req.Price = &negative

	errs := GetValidationErrors(ValidateStruct(&req))
	require.Len(t, errs, 1)
	assert.Equal(t, "price", errs[0].Field)
	assert.Equal(t, "min", errs[0].Tag)
	assert.Equal(t, "price must be at least 0", errs[0].Message)
}

func TestValidationErrorsUseJSONNames(t *testing.T) {
	req := sampleRequest{Name: "far too long a name", Slug: "Bad Slug"}

	errs := GetValidationErrors(ValidateStruct(&req))
	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		fields[e.Field] = e.Tag
	}

	assert.Equal(t, map[string]string{
		"name":  "max",
		"phone": "required",
		"slug":  "slug",
		"price": "required",
	}, fields)
}

func TestGetValidationErrorsIgnoresOtherErrors(t *testing.T) {
	assert.Empty(t, GetValidationErrors(nil))
	assert.Empty(t, GetValidationErrors(assert.AnError))
}
