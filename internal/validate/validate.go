package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reEmail    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	reUsername = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,30}$`)
)

// MaxMessage bounds a single chat message.
const MaxMessage = 1000

// Inline field messages shown next to form inputs.
const (
	MsgRequired = "This field is required"
	MsgEmail    = "Please enter a valid email address"
	MsgPassword = "Password must be at least 6 characters"
)

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 120 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Username validates an account name: letters, digits and _.- only.
func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reUsername.MatchString(s)
}

// Message trims a chat message and caps its length.
func Message(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if len(s) > MaxMessage {
		s = s[:MaxMessage]
	}
	return s, true
}

func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > 50 {
		return 50
	} // clamp to avoid abuse
	return n
}

// ID parses a positive numeric resource identifier.
func ID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Password enforces the minimum length accepted at registration.
func Password(s string) bool {
	return len(s) >= 6 && len(s) <= 72
}

// Kind selects the extra check applied to a non-empty field.
type Kind int

const (
	Text Kind = iota
	EmailField
	PasswordField
)

type Field struct {
	Name     string
	Value    string
	Kind     Kind
	Required bool
}

// FieldErrors maps a field name to its inline error message.
type FieldErrors map[string]string

func (e FieldErrors) OK() bool { return len(e) == 0 }

// Form checks each field in order and returns the first problem per field.
func Form(fields ...Field) FieldErrors {
	errs := FieldErrors{}
	for _, f := range fields {
		v := strings.TrimSpace(f.Value)
		if f.Required && v == "" {
			errs[f.Name] = MsgRequired
			continue
		}
		if v == "" {
			continue
		}
		switch f.Kind {
		case EmailField:
			if _, ok := Email(v); !ok {
				errs[f.Name] = MsgEmail
			}
		case PasswordField:
			if len(f.Value) < 6 {
				errs[f.Name] = MsgPassword
			}
		}
	}
	return errs
}
