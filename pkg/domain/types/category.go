package types

// Category is the kind of civic problem an issue describes
type Category string

const (
	CategoryPothole      Category = "pothole"
	CategoryGarbage      Category = "garbage"
	CategoryBrokenLight  Category = "broken_light"
	CategoryWaterLeakage Category = "water_leakage"
	CategoryGraffiti     Category = "graffiti"
	CategoryOther        Category = "other"
)

// AllCategories lists categories in display order
var AllCategories = []Category{
	CategoryPothole,
	CategoryGarbage,
	CategoryBrokenLight,
	CategoryWaterLeakage,
	CategoryGraffiti,
	CategoryOther,
}

// String returns the string representation of the category
func (c Category) String() string {
	return string(c)
}

// IsValid checks if the category is valid
func (c Category) IsValid() bool {
	for _, v := range AllCategories {
		if c == v {
			return true
		}
	}
	return false
}

// Severity is the backend/AI assigned urgency tier
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityModerate Severity = "moderate"
	SeverityMinor    Severity = "minor"
)

// AllSeverities lists severities from most to least urgent
var AllSeverities = []Severity{
	SeverityCritical,
	SeverityModerate,
	SeverityMinor,
}

// String returns the string representation of the severity
func (s Severity) String() string {
	return string(s)
}

// IsValid checks if the severity is valid
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityModerate, SeverityMinor:
		return true
	default:
		return false
	}
}
