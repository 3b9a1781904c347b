package model

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// ValidationError reports a single rejected field value.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s (%q)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Violations collects field -> message pairs while validating a record.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Err returns nil when there are no violations, otherwise a *ViolationsError.
func (v Violations) Err() error {
	if v.Empty() {
		return nil
	}
	return &ViolationsError{Fields: v}
}

// ViolationsError wraps a non-empty Violations set.
type ViolationsError struct {
	Fields Violations
}

func (e *ViolationsError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func requiredTime(field string, t time.Time, v Violations) {
	if t.IsZero() {
		v[field] = "required"
	}
}

func oneOf[T ~string](field string, val T, allowed []T, v Violations) {
	for _, a := range allowed {
		if val == a {
			return
		}
	}
	v[field] = fmt.Sprintf("invalid value %q", string(val))
}

func allOf[T ~string](field string, vals []T, allowed []T, v Violations) {
	for _, val := range vals {
		oneOf(field, val, allowed, v)
		if _, bad := v[field]; bad {
			return
		}
	}
}

var (
	fileExtPattern  = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|pdf|mp4|avi|mov|mkv|webm)$`)
	httpURLPattern  = regexp.MustCompile(`(?i)^https?://.+`)
	rawUploadMarker = "/raw/upload/"
)

// ValidateFileURL accepts an http(s) URL that either ends in an allowed media
// extension or points at a raw upload path.
func ValidateFileURL(field, value string) error {
	if httpURLPattern.MatchString(value) && (fileExtPattern.MatchString(value) || strings.Contains(value, rawUploadMarker)) {
		return nil
	}
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: "not a valid URL with an allowed extension (.jpg, .png, .gif, .pdf, .mp4, .mov, ...)",
	}
}

// ParseDate accepts YYYY-MM-DD or RFC 3339 timestamps and returns UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
