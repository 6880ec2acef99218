package validate

import (
	"regexp"
	"strings"
	"time"
)

var (
	reDate  = regexp.MustCompile(`^[0-9]{4}-[0-9]{2}-[0-9]{2}$`)
	reClock = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	reEmail = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	reLogin = regexp.MustCompile(`^[A-Za-z0-9._@+-]{3,64}$`)
)

// Date accepts YYYY-MM-DD, or an ISO timestamp which it truncates to its
// date part (clients send both).
func Date(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i > 0 {
		s = s[:i]
	}
	if !reDate.MatchString(s) {
		return "", false
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", false
	}
	return s, true
}

// ClockTime validates a HH:MM pickup time.
func ClockTime(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reClock.MatchString(s)
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 50 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

func Login(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reLogin.MatchString(s)
}

// Qty validates a reservation quantity: at least 1, clamped to
// avoid abuse.
func Qty(n int) (int, bool) {
	if n < 1 {
		return 0, false
	}
	if n > 1000 {
		return 0, false
	}
	return n, true
}

// Password enforces a simple length window.
func Password(s string) bool {
	l := len(s)
	return l >= 8 && l <= 72 // bcrypt input cap
}
