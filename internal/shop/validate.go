package shop

import (
	"fmt"
	"regexp"
	"strings"
)

type Contact struct {
	Name  string
	Phone string
	Email string
}

// Validation carries the per-field error messages from the last check. An
// empty string means the field passed.
type Validation struct {
	NameError  string
	PhoneError string
	EmailError string
	CartError  string
}

func (v Validation) Valid() bool {
	return v.NameError == "" && v.PhoneError == "" && v.EmailError == "" && v.CartError == ""
}

var (
	namePattern  = regexp.MustCompile(`^[A-Za-z ]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]+$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[A-Za-z]{2,}$`)
)

const (
	DefaultPhoneMinDigits = 8
	DefaultPhoneMaxDigits = 15
)

// Validator holds the configurable bounds. All checks are pure: the same
// inputs always produce the same messages.
type Validator struct {
	PhoneMinDigits int
	PhoneMaxDigits int
}

func NewValidator(phoneMin, phoneMax int) Validator {
	if phoneMin <= 0 {
		phoneMin = DefaultPhoneMinDigits
	}
	if phoneMax < phoneMin {
		phoneMax = DefaultPhoneMaxDigits
	}
	return Validator{PhoneMinDigits: phoneMin, PhoneMaxDigits: phoneMax}
}

func (v Validator) ValidateName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Name is required."
	}
	if !namePattern.MatchString(name) {
		return "Name must contain letters and spaces only."
	}
	return ""
}

func (v Validator) ValidatePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "Phone number is required."
	}
	if !phonePattern.MatchString(phone) {
		return "Phone number must contain digits only."
	}
	if len(phone) < v.PhoneMinDigits || len(phone) > v.PhoneMaxDigits {
		return fmt.Sprintf("Phone number must contain %d-%d digits.", v.PhoneMinDigits, v.PhoneMaxDigits)
	}
	return ""
}

func (v Validator) ValidateEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return "Email is required."
	}
	if !emailPattern.MatchString(email) {
		return "Enter a valid email address."
	}
	return ""
}

// Validate runs all four checks. cartUnits is the total quantity across
// cart lines.
func (v Validator) Validate(c Contact, cartUnits int) Validation {
	result := Validation{
		NameError:  v.ValidateName(c.Name),
		PhoneError: v.ValidatePhone(c.Phone),
		EmailError: v.ValidateEmail(c.Email),
	}
	if cartUnits < 1 {
		result.CartError = "Your cart is empty."
	}
	return result
}
