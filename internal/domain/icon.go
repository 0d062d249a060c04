package domain

// Icons is the fixed set of display tags a gem may carry.
var Icons = []string{
	"code",
	"image",
	"text",
	"audio",
	"world",
	"graph",
	"art",
	"money",
	"book",
	"case",
	"bookmark",
	"star",
}

// DefaultIcon is what the catalog renders when a gem has no icon.
const DefaultIcon = "star"

// IconOrDefault returns icon when it belongs to Icons, DefaultIcon otherwise.
func IconOrDefault(icon string) string {
	for _, v := range Icons {
		if v == icon {
			return icon
		}
	}
	return DefaultIcon
}
