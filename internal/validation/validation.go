// Package validation holds the field-level rules applied to incoming
// arguments before any store or credential work is done.
//
// Every rule is pure. It returns nil when the value passes and otherwise a
// *common.Error of kind common.ErrorValidation carrying the supplied message.
package validation

import (
	"math"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/staffql/internal/common"
)

var (
	emailRe    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	isoDateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	objectIDRe = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
	imageURLRe = regexp.MustCompile(`(?i)^https?://[^\s$.?#].[^\s]*\.(?:jpg|jpeg|png|gif|bmp|webp|svg)$`)
)

// ImageExtensions lists the file extensions accepted for employee photos.
var ImageExtensions = []string{"jpg", "jpeg", "png", "gif", "bmp", "webp", "svg"}

func IsEmail(v string) bool    { return emailRe.MatchString(v) }
func IsISODate(v string) bool  { return isoDateRe.MatchString(v) }
func IsObjectID(v string) bool { return objectIDRe.MatchString(v) }
func IsImageURL(v string) bool { return imageURLRe.MatchString(v) }

// IsImageExtension reports whether ext (with or without a leading dot) is one
// of ImageExtensions, ignoring case.
func IsImageExtension(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, e := range ImageExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

func fail(msg string) error {
	return common.NewError(common.ErrorValidation, msg)
}

// RequiredString fails when v is empty.
func RequiredString(v, msg string) error {
	if v == "" {
		return fail(msg)
	}
	return nil
}

// NotBlank fails when v is empty or whitespace-only.
func NotBlank(v, msg string) error {
	if strings.TrimSpace(v) == "" {
		return fail(msg)
	}
	return nil
}

// EmailShape fails unless v looks like local@domain.tld.
func EmailShape(v, msg string) error {
	if !IsEmail(v) {
		return fail(msg)
	}
	return nil
}

// PositiveNumber fails unless v is finite and greater than zero.
func PositiveNumber(v float64, msg string) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fail(msg)
	}
	return nil
}

// ISODate checks the YYYY-MM-DD layout only; "2023-13-40" passes.
func ISODate(v, msg string) error {
	if !IsISODate(v) {
		return fail(msg)
	}
	return nil
}

// ImageURL passes an empty value. Otherwise v must be an http(s) URL ending in
// one of ImageExtensions.
func ImageURL(v, msg string) error {
	if v == "" {
		return nil
	}
	if !IsImageURL(v) {
		return fail(msg)
	}
	return nil
}

// IDShape fails unless v is a 24-character hexadecimal string.
func IDShape(v, msg string) error {
	if !IsObjectID(v) {
		return fail(msg)
	}
	return nil
}

// First returns the first non-nil error. Pass rules in the order their
// messages should win.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
