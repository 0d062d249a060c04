package domain

import "time"

// Gem represents a single curated link in the catalog.
//
// The JSON field names are the on-disk and wire format; they are shared
// with the remote mirror copy and the download snapshot.
type Gem struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is an opaque unique identifier assigned at creation.
	ID string `json:"id"`

	// ─────────────────────────────
	// Content (editable)
	// ─────────────────────────────

	// Title is the short display name (1-80 characters).
	Title string `json:"title"`

	// Description is the card text (1-180 characters).
	Description string `json:"description"`

	// URL is the absolute http(s) destination.
	URL string `json:"url"`

	// PreviewImageURL is an absolute http(s) URL or a root-relative path.
	PreviewImageURL string `json:"previewImageUrl"`

	// Icon is an optional display tag, see Icons.
	Icon string `json:"icon,omitempty"`

	// Published governs visibility on the public catalog.
	Published bool `json:"published"`

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt never changes after creation.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is refreshed on every successful mutation.
	UpdatedAt time.Time `json:"updatedAt"`
}

// GemFields are the caller-supplied fields of a new gem.
type GemFields struct {
	Title           string `json:"title" yaml:"title"`
	Description     string `json:"description" yaml:"description"`
	URL             string `json:"url" yaml:"url"`
	PreviewImageURL string `json:"previewImageUrl" yaml:"previewImageUrl"`
	Icon            string `json:"icon,omitempty" yaml:"icon"`
	Published       bool   `json:"published" yaml:"published"`
}

// Patch is a partial update. Nil fields are left untouched.
// Identity and timestamps are deliberately absent so a patch can never
// rewrite them.
type Patch struct {
	Title           *string `json:"title,omitempty"`
	Description     *string `json:"description,omitempty"`
	URL             *string `json:"url,omitempty"`
	PreviewImageURL *string `json:"previewImageUrl,omitempty"`
	Icon            *string `json:"icon,omitempty"`
	Published       *bool   `json:"published,omitempty"`
}

// Apply merges the patch into g. Timestamps are the caller's business.
func (p Patch) Apply(g *Gem) {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.URL != nil {
		g.URL = *p.URL
	}
	if p.PreviewImageURL != nil {
		g.PreviewImageURL = *p.PreviewImageURL
	}
	if p.Icon != nil {
		g.Icon = *p.Icon
	}
	if p.Published != nil {
		g.Published = *p.Published
	}
}
