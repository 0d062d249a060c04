package file

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/MrSnakeDoc/gemshub/internal/domain"
)

// Encode renders gems in the canonical on-disk form: a JSON array indented
// with two spaces, fields in struct order, terminated by a newline.
// The same bytes are used for the local file, the download and the mirror.
func Encode(gems []domain.Gem) ([]byte, error) {
	if gems == nil {
		gems = []domain.Gem{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(gems); err != nil {
		return nil, fmt.Errorf("failed to encode gems: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a gems file. Blank input and JSON null both decode to an
// empty, non-nil collection.
func Decode(data []byte) ([]domain.Gem, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []domain.Gem{}, nil
	}

	var gems []domain.Gem
	if err := json.Unmarshal(data, &gems); err != nil {
		return nil, fmt.Errorf("failed to decode gems: %w", err)
	}
	if gems == nil {
		gems = []domain.Gem{}
	}
	return gems, nil
}
