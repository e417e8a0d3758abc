package validator_test

import (
	"strings"
	"testing"
	"time"

	"storefront/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderForm struct {
	FirstName  string `form:"first_name" validate:"required,max=5"`
	BuyingType string `form:"buying_type" validate:"omitempty,oneof=self delivery"`
	OrderDate  string `form:"order_date" validate:"required,orderdate"`
	Comment    string
}

func TestFormValidator_OK(t *testing.T) {
	v := validator.NewFormValidator()

	fields := v.ValidateForm(orderForm{FirstName: "Ann", OrderDate: "2026-11-01"})
	assert.Nil(t, fields)
}

func TestFormValidator_FieldMessages(t *testing.T) {
	v := validator.NewFormValidator()

	fields := v.ValidateForm(orderForm{
		FirstName:  strings.Repeat("x", 6),
		BuyingType: "drone",
		OrderDate:  "soon",
	})

	assert.Equal(t, map[string]string{
		"first_name":  "at most 5 characters",
		"buying_type": "must be one of: self delivery",
		"order_date":  "enter a valid date",
	}, fields)
}

func TestFormValidator_Required(t *testing.T) {
	fields := validator.NewFormValidator().ValidateForm(orderForm{})

	assert.Equal(t, "this field is required", fields["first_name"])
	assert.Equal(t, "this field is required", fields["order_date"])
	assert.NotContains(t, fields, "buying_type")
	assert.NotContains(t, fields, "Comment")
}

func TestParseOrderDate(t *testing.T) {
	cases := map[string]time.Time{
		"2026-11-01":                time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		" 2026-11-01 ":              time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		"2026-11-01 14:30":          time.Date(2026, 11, 1, 14, 30, 0, 0, time.UTC),
		"2026-11-01 14:30:15":       time.Date(2026, 11, 1, 14, 30, 15, 0, time.UTC),
		"2026-11-01T14:30":          time.Date(2026, 11, 1, 14, 30, 0, 0, time.UTC),
		"2026-11-01T14:30:00+02:00": time.Date(2026, 11, 1, 12, 30, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, err := validator.ParseOrderDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s: got %s", in, got)
	}

	for _, in := range []string{"", "01/11/2026", "2026-13-01", "tomorrow"} {
		_, err := validator.ParseOrderDate(in)
		assert.Error(t, err, in)
	}
}
