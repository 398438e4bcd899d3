package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrEmptyGST indicates the GST number is empty
	ErrEmptyGST = errors.New("GST number cannot be empty")

	// ErrInvalidGST indicates the GST number does not follow the GSTIN layout
	ErrInvalidGST = errors.New("GST number must be a 15 character GSTIN, e.g. 27AAPFU0939F1ZV")
)

// gstRegex: 2-digit state code, 10-char PAN, entity digit, 'Z', check character
var gstRegex = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// ValidateGST normalises and validates a store GST number
func ValidateGST(gst string) (string, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(gst), " ", ""))
	if normalized == "" {
		return "", ErrEmptyGST
	}
	if !gstRegex.MatchString(normalized) {
		return "", ErrInvalidGST
	}
	return normalized, nil
}
