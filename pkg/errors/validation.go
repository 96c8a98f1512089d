package errors

import (
	"slices"
	"strings"
	"unicode"

	"github.com/matzehuels/reebsmooth/pkg/level"
)

// MaxEpsilonLength bounds the textual length of an ε argument.
const MaxEpsilonLength = 64

// ValidateEpsilon parses an ε argument and rounds it to p.
//
// Validation rules:
//   - must not be empty or longer than [MaxEpsilonLength]
//   - must be a decimal number without control characters
//   - must not be negative
func ValidateEpsilon(s string, p level.Precision) (level.Value, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return level.Zero, New(ErrCodeInvalidEpsilon, "epsilon cannot be empty")
	}
	if len(s) > MaxEpsilonLength {
		return level.Zero, New(ErrCodeInvalidEpsilon, "epsilon too long (max %d characters)", MaxEpsilonLength)
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return level.Zero, New(ErrCodeInvalidEpsilon, "epsilon contains invalid control characters")
		}
	}
	v, err := p.Parse(s)
	if err != nil {
		return level.Zero, Wrap(ErrCodeInvalidEpsilon, err, "epsilon %q is not a number", s)
	}
	if v.Sign() < 0 {
		return level.Zero, New(ErrCodeInvalidEpsilon, "epsilon must not be negative, got %s", v)
	}
	return v, nil
}

// ValidatePrecision returns the Precision for places decimal places.
func ValidatePrecision(places int) (level.Precision, error) {
	if places < 0 || places > int(level.MaxPlaces) {
		return level.Precision{}, New(ErrCodeInvalidPrecision,
			"precision must be between 0 and %d decimal places, got %d", level.MaxPlaces, places)
	}
	return level.MustPrecision(int32(places)), nil
}

// ValidateFormat checks name against the allowed format names,
// case-insensitively, and returns its canonical lower-case form.
func ValidateFormat(name string, allowed []string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if !slices.Contains(allowed, n) {
		return "", New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", name, strings.Join(allowed, ", "))
	}
	return n, nil
}

// ValidateSweepSteps checks the number of panels in an ε sweep.
func ValidateSweepSteps(steps, max int) error {
	if steps < 2 {
		return New(ErrCodeInvalidInput, "sweep needs at least 2 steps, got %d", steps)
	}
	if max > 0 && steps > max {
		return New(ErrCodeInvalidInput, "sweep steps limited to %d, got %d", max, steps)
	}
	return nil
}

// ValidateCacheURL checks that a cache URL uses a Redis scheme.
func ValidateCacheURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "cache URL cannot be empty")
	}
	for _, scheme := range []string{"redis://", "rediss://", "unix://"} {
		if strings.HasPrefix(rawURL, scheme) {
			return nil
		}
	}
	return New(ErrCodeInvalidConfig, "cache URL must use redis, rediss or unix scheme")
}
