// Package validate holds the field checks shared by the request handlers'
// business services.
package validate

import (
	"regexp"
	"strings"
	"time"
)

var phoneRE = regexp.MustCompile(`^\d{10}$`)

// Blank reports whether any value is empty once surrounding whitespace is removed.
func Blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// PhoneNumber reports whether s is exactly ten digits.
func PhoneNumber(s string) bool {
	return phoneRE.MatchString(s)
}

func OneOf(v string, options []string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}

var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"}

// ParseDate accepts RFC 3339 timestamps, HTML datetime-local values and plain
// dates. Values without a zone are read in loc.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
