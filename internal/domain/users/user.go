package users

import (
	"strings"
	"time"
	"unicode"

	"github.com/ShiroyamaY/tms/internal/pkg/validators"
)

// User entity
type User struct {
	ID           uint
	Username     string `json:"username" validate:"required,min=4,max=150,username"`
	Email        string `json:"email" validate:"required,email,max=254"`
	FirstName    string `json:"first_name" validate:"max=150"`
	LastName     string `json:"last_name" validate:"max=150"`
	PasswordHash string `json:"-"`
	CreatedAt    time.Time
}

// FullName joins first and last name with a single space
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Validate for validating User struct
func (u *User) Validate() error {
	return validators.Struct(validators.New(), u)
}

// Registration is the input for creating an account
type Registration struct {
	Username  string `json:"username" validate:"required,min=4,max=150,username"`
	Email     string `json:"email" validate:"required,email,max=254"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

// Validate checks field rules and password strength
func (r *Registration) Validate() error {
	err := validators.Struct(validators.New(), r)
	if err != nil {
		return err
	}

	verr := &validators.ValidationError{}
	if isNumeric(r.Password) {
		verr.Add("password", "This password is entirely numeric.")
	}
	if r.Username != "" && strings.EqualFold(r.Password, r.Username) {
		verr.Add("password", "The password is too similar to the username.")
	}
	return verr.OrNil()
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
