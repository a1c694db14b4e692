package shop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateName(t *testing.T) {
	v := NewValidator(0, 0)

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Ada Lovelace", false},
		{"trimmed", "  Ada  ", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"digits", "Ada123", true},
		{"punctuation", "O'Brien", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := v.ValidateName(tc.input)
			if tc.wantErr {
				assert.NotEmpty(t, msg)
			} else {
				assert.Empty(t, msg)
			}
		})
	}
}

func TestValidatePhone(t *testing.T) {
	v := NewValidator(0, 0)

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "02079460000", false},
		{"min length", "12345678", false},
		{"max length", "123456789012345", false},
		{"too short", "1234567", true},
		{"too long", "1234567890123456", true},
		{"letters", "abc", true},
		{"mixed", "0207abc0000", true},
		{"empty", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := v.ValidatePhone(tc.input)
			if tc.wantErr {
				assert.NotEmpty(t, msg)
			} else {
				assert.Empty(t, msg)
			}
		})
	}
}

func TestValidatePhone_ConfigurableBounds(t *testing.T) {
	v := NewValidator(3, 5)
	assert.Empty(t, v.ValidatePhone("123"))
	assert.Empty(t, v.ValidatePhone("12345"))
	assert.NotEmpty(t, v.ValidatePhone("12"))
	assert.NotEmpty(t, v.ValidatePhone("123456"))
}

func TestValidateEmail(t *testing.T) {
	v := NewValidator(0, 0)

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "ada@example.org", false},
		{"subdomain", "ada@mail.example.org", false},
		{"missing at", "ada.example.org", true},
		{"missing tld", "ada@example", true},
		{"spaces", "ada @example.org", true},
		{"empty", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := v.ValidateEmail(tc.input)
			if tc.wantErr {
				assert.NotEmpty(t, msg)
			} else {
				assert.Empty(t, msg)
			}
		})
	}
}

func TestValidate_Conjunction(t *testing.T) {
	v := NewValidator(0, 0)

	good := Contact{Name: "Ada Lovelace", Phone: "02079460000", Email: "ada@example.org"}

	result := v.Validate(good, 2)
	assert.True(t, result.Valid())

	result = v.Validate(good, 0)
	assert.False(t, result.Valid())
	assert.NotEmpty(t, result.CartError)

	result = v.Validate(Contact{Name: "Ada", Phone: "abc", Email: "ada@example.org"}, 1)
	assert.False(t, result.Valid())
	assert.Empty(t, result.NameError)
	assert.NotEmpty(t, result.PhoneError)
	assert.Empty(t, result.EmailError)
}

func TestValidate_Rederivable(t *testing.T) {
	// Same inputs, same messages: no state accumulates between runs.
	v := NewValidator(0, 0)
	c := Contact{Name: "Ada!", Phone: "123", Email: "nope"}

	first := v.Validate(c, 0)
	second := v.Validate(c, 0)
	assert.Equal(t, first, second)
}
