package domain

import (
	"net/url"
	"sort"
	"strings"

	"github.com/asaskevich/govalidator"
)

const (
	MaxTitleLength       = 80
	MaxDescriptionLength = 180
)

// ValidationError lists every rejected field with a human readable reason.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid gem: " + strings.Join(parts, "; ")
}

type validator struct {
	fields map[string]string
}

func (v *validator) fail(field, msg string) {
	if v.fields == nil {
		v.fields = make(map[string]string)
	}
	if _, exists := v.fields[field]; !exists {
		v.fields[field] = msg
	}
}

func (v *validator) err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: v.fields}
}

func (v *validator) title(s string) {
	switch {
	case s == "":
		v.fail("title", "Title is required")
	case !govalidator.RuneLength(s, "1", "80"):
		v.fail("title", "Title must be 80 characters or less")
	}
}

func (v *validator) description(s string) {
	switch {
	case s == "":
		v.fail("description", "Description is required")
	case !govalidator.RuneLength(s, "1", "180"):
		v.fail("description", "Description must be 180 characters or less")
	}
}

func (v *validator) url(s string) {
	switch {
	case s == "":
		v.fail("url", "URL is required")
	case !isHTTPURL(s):
		v.fail("url", "URL must start with http:// or https://")
	}
}

func (v *validator) previewImageURL(s string) {
	switch {
	case s == "":
		v.fail("previewImageUrl", "Preview image URL is required")
	case strings.HasPrefix(s, "/"):
	case !isHTTPURL(s):
		v.fail("previewImageUrl", "Must be a valid URL or a local path starting with /")
	}
}

func (v *validator) icon(s string) {
	if s != "" && !govalidator.IsIn(s, Icons...) {
		v.fail("icon", "Unknown icon")
	}
}

// ValidateFields enforces the boundary contract for a new gem.
// The record store trusts its callers, so every entry point runs this first.
func ValidateFields(f GemFields) error {
	var v validator
	v.title(f.Title)
	v.description(f.Description)
	v.url(f.URL)
	v.previewImageURL(f.PreviewImageURL)
	v.icon(f.Icon)
	return v.err()
}

// ValidatePatch checks only the fields the patch carries.
func ValidatePatch(p Patch) error {
	var v validator
	if p.Title != nil {
		v.title(*p.Title)
	}
	if p.Description != nil {
		v.description(*p.Description)
	}
	if p.URL != nil {
		v.url(*p.URL)
	}
	if p.PreviewImageURL != nil {
		v.previewImageURL(*p.PreviewImageURL)
	}
	if p.Icon != nil {
		v.icon(*p.Icon)
	}
	return v.err()
}

func isHTTPURL(s string) bool {
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return false
	}
	if !govalidator.IsRequestURL(s) {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.Host != ""
}
