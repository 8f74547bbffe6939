package auth

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// LoginErrors holds per-field messages from a login attempt. Empty fields
// mean the field passed.
type LoginErrors struct {
	Email    string
	Password string
}

// OK reports whether the attempt passed every check.
func (e LoginErrors) OK() bool {
	return e.Email == "" && e.Password == ""
}

func (e LoginErrors) Error() string {
	var parts []string
	if e.Email != "" {
		parts = append(parts, "email: "+e.Email)
	}
	if e.Password != "" {
		parts = append(parts, "password: "+e.Password)
	}
	return strings.Join(parts, "; ")
}

// CheckLogin validates a login form and then asks v whether the pair is
// accepted. Field shape errors are reported per field; a rejected pair marks
// both fields as invalid credentials.
func CheckLogin(v Verifier, email, password string) LoginErrors {
	var errs LoginErrors
	switch {
	case email == "":
		errs.Email = "Email is required"
	case !emailPattern.MatchString(email):
		errs.Email = "Please enter a valid email"
	}
	if password == "" {
		errs.Password = "Password is required"
	}
	if !errs.OK() {
		return errs
	}
	// Verify only answers for the pair, so neither field can be singled out.
	if !v.Verify(email, password) {
		return LoginErrors{Email: "Invalid credentials", Password: "Invalid credentials"}
	}
	return errs
}
