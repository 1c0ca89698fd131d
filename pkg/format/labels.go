package format

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/secmon-lab/civicsnap/pkg/domain/types"
)

const unknownLabel = "Unknown"

// FormatCategory splits on underscores and capitalises each word.
// Categories outside the known set render as "Unknown".
func FormatCategory(c types.Category) string {
	if !c.IsValid() {
		return unknownLabel
	}
	return titleWords(c.String())
}

// FormatStatus renders a status as capitalised words, "Unknown" if empty
func FormatStatus(s types.Status) string {
	if s == "" {
		return unknownLabel
	}
	return titleWords(s.String())
}

// StatusBadge is the short lowercase label shown on badges, e.g. "in progress"
func StatusBadge(s types.Status) string {
	return strings.Replace(s.String(), "_", " ", 1)
}

func titleWords(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

var categoryIcons = map[types.Category]string{
	types.CategoryPothole:      "🕳️",
	types.CategoryGarbage:      "🗑️",
	types.CategoryBrokenLight:  "💡",
	types.CategoryWaterLeakage: "💧",
	types.CategoryGraffiti:     "🎨",
	types.CategoryOther:        "❓",
}

// CategoryIcon returns the emoji for a category, the "other" icon if unmapped
func CategoryIcon(c types.Category) string {
	if icon, ok := categoryIcons[c]; ok {
		return icon
	}
	return categoryIcons[types.CategoryOther]
}

var severityEmoji = map[types.Severity]string{
	types.SeverityCritical: "🔴",
	types.SeverityModerate: "🟡",
	types.SeverityMinor:    "🟢",
}

// SeverityEmoji returns the emoji for a severity, a white circle if unmapped
func SeverityEmoji(s types.Severity) string {
	if e, ok := severityEmoji[s]; ok {
		return e
	}
	return "⚪"
}

var statusEmoji = map[types.Status]string{
	types.StatusReported:   "📋",
	types.StatusInProgress: "⏳",
	types.StatusResolved:   "✅",
	types.StatusRejected:   "❌",
}

// StatusEmoji returns the emoji for a status, a question mark if unmapped
func StatusEmoji(s types.Status) string {
	if e, ok := statusEmoji[s]; ok {
		return e
	}
	return "❓"
}

// Color names understood by the terminal renderer
const (
	ColorRed     = "red"
	ColorYellow  = "yellow"
	ColorGreen   = "green"
	ColorBlue    = "blue"
	ColorMagenta = "magenta"
	ColorGray    = "gray"
)

var severityColors = map[types.Severity]string{
	types.SeverityCritical: ColorRed,
	types.SeverityModerate: ColorYellow,
	types.SeverityMinor:    ColorGreen,
}

// SeverityColor returns the badge color; unmapped values look moderate
func SeverityColor(s types.Severity) string {
	if c, ok := severityColors[s]; ok {
		return c
	}
	return severityColors[types.SeverityModerate]
}

var statusColors = map[types.Status]string{
	types.StatusReported:   ColorBlue,
	types.StatusInProgress: ColorMagenta,
	types.StatusResolved:   ColorGreen,
	types.StatusRejected:   ColorGray,
}

// StatusColor returns the badge color; unmapped values look reported
func StatusColor(s types.Status) string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return statusColors[types.StatusReported]
}

// PriorityColor maps a priority score to a hex color
func PriorityColor(priority float64) string {
	switch {
	case priority >= 80:
		return "#ef4444"
	case priority >= 60:
		return "#f59e0b"
	case priority >= 40:
		return "#eab308"
	default:
		return "#10b981"
	}
}
