package util

var categoryIcons = map[string]string{
	"entertainment": "📺",
	"productivity":  "💼",
	"education":     "🎓",
	"fitness":       "🏋",
	"music":         "🎵",
	"cloud":         "☁",
	"other":         "●",
}

// CategoryIcon maps a subscription category to its display icon
func CategoryIcon(category string) string {
	if icon, ok := categoryIcons[category]; ok {
		return icon
	}
	return categoryIcons["other"]
}
