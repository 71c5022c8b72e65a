package errors

import (
	"strconv"
	"strings"
	"unicode"
)

// Year bounds accepted by ValidateYear. The first presidential election was
// held in 1788; anything past 2100 is almost certainly a typo.
const (
	MinYear = 1788
	MaxYear = 2100
)

// ValidateYear checks that year is a plausible election year.
func ValidateYear(year int) error {
	if year < MinYear || year > MaxYear {
		return New(ErrCodeInvalidYear, "year %d out of range (%d-%d)", year, MinYear, MaxYear)
	}
	return nil
}

// ParseYear parses and validates a year given as text (URL parameters,
// CLI arguments, file names).
func ParseYear(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, New(ErrCodeInvalidYear, "year cannot be empty")
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, New(ErrCodeInvalidYear, "invalid year: %q", s)
	}
	if err := ValidateYear(year); err != nil {
		return 0, err
	}
	return year, nil
}

// ValidateAbbreviation checks that abbr is a two-letter upper-case code.
// It does not check that the code exists in the cartogram grid; that is the
// grid package's job.
func ValidateAbbreviation(abbr string) error {
	if len(abbr) != 2 {
		return New(ErrCodeInvalidRecord, "state abbreviation must be two letters: %q", abbr)
	}
	for _, r := range abbr {
		if r > unicode.MaxASCII || !unicode.IsUpper(r) {
			return New(ErrCodeInvalidRecord, "state abbreviation must be upper-case ASCII: %q", abbr)
		}
	}
	return nil
}

// ValidateName validates a free-form identifier (chart names, session IDs)
// used in cache keys and URLs. It rejects empty names, control characters and
// path separators.
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "name too long (max 128 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}
	for _, pattern := range []string{"..", "/", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidInput, "name contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	return nil
}
