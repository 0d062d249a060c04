package seed

import "github.com/MrSnakeDoc/gemshub/internal/domain"

// File is the root structure of the seed YAML: a plain list of gems.
//
//	- title: Email Draft Writer
//	  description: Drafts emails
//	  url: https://gemini.google.com/gem/abc
//	  previewImageUrl: /images/a.png
//	  icon: text
//	  published: true
type File []domain.GemFields
