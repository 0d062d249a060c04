package domain

import "strings"

// PublishedOnly keeps the gems visible on the public catalog, in order.
func PublishedOnly(gems []Gem) []Gem {
	out := make([]Gem, 0, len(gems))
	for _, g := range gems {
		if g.Published {
			out = append(out, g)
		}
	}
	return out
}

// Search filters gems by a case-insensitive substring match over title and
// description. An empty (or blank) query matches everything.
func Search(gems []Gem, query string) []Gem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return gems
	}

	out := make([]Gem, 0, len(gems))
	for _, g := range gems {
		if strings.Contains(strings.ToLower(g.Title), q) ||
			strings.Contains(strings.ToLower(g.Description), q) {
			out = append(out, g)
		}
	}
	return out
}
