package model

import (
	"time"

	"github.com/secmon-lab/civicsnap/pkg/domain/types"
)

// Issue is a reported civic problem as returned by the backend.
// This layer only holds it for the lifetime of a view.
type Issue struct {
	ID           types.IssueID  `json:"_id"`
	Category     types.Category `json:"category"`
	Severity     types.Severity `json:"severity"`
	Status       types.Status   `json:"status"`
	Description  string         `json:"description,omitempty"`
	Location     Location       `json:"location"`
	ImageURL     string         `json:"imageUrl"`
	AIConfidence *float64       `json:"aiConfidence,omitempty"`
	AIModel      string         `json:"aiModel,omitempty"`
	Votes        int            `json:"votes"`
	ViewCount    int            `json:"viewCount"`
	Priority     float64        `json:"priority"`
	ReportedBy   *Reporter      `json:"reportedBy,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	ResolvedAt   *time.Time     `json:"resolvedAt,omitempty"`
}

// Copy returns a deep copy of the issue. A nil issue copies to nil.
func (i *Issue) Copy() *Issue {
	if i == nil {
		return nil
	}
	c := *i
	if i.Location.Coordinates != nil {
		c.Location.Coordinates = append([]float64(nil), i.Location.Coordinates...)
	}
	if i.ReportedBy != nil {
		r := *i.ReportedBy
		c.ReportedBy = &r
	}
	if i.AIConfidence != nil {
		v := *i.AIConfidence
		c.AIConfidence = &v
	}
	if i.ResolvedAt != nil {
		v := *i.ResolvedAt
		c.ResolvedAt = &v
	}
	return &c
}

// Location is stored by the backend as a GeoJSON point plus address parts
type Location struct {
	Type        string    `json:"type,omitempty"`
	Coordinates []float64 `json:"coordinates,omitempty"` // [longitude, latitude]
	Address     string    `json:"address,omitempty"`
	City        string    `json:"city,omitempty"`
	State       string    `json:"state,omitempty"`
	Pincode     string    `json:"pincode,omitempty"`
}

// NewPoint creates a GeoJSON location for the given coordinates
func NewPoint(latitude, longitude float64) Location {
	return Location{
		Type:        "Point",
		Coordinates: []float64{longitude, latitude},
	}
}

// Latitude returns the latitude, or 0 if coordinates are missing
func (l Location) Latitude() float64 {
	if len(l.Coordinates) < 2 {
		return 0
	}
	return l.Coordinates[1]
}

// Longitude returns the longitude, or 0 if coordinates are missing
func (l Location) Longitude() float64 {
	if len(l.Coordinates) < 2 {
		return 0
	}
	return l.Coordinates[0]
}

// HasCoordinates reports whether the location carries a point
func (l Location) HasCoordinates() bool {
	return len(l.Coordinates) >= 2
}

// Reporter is the optional reporter contact attached to an issue
type Reporter struct {
	Name    string `json:"name,omitempty" validate:"omitempty,max=100"`
	Contact string `json:"contact,omitempty" validate:"omitempty,max=100"`
}

// IsEmpty returns true if neither name nor contact is set
func (r *Reporter) IsEmpty() bool {
	return r == nil || (r.Name == "" && r.Contact == "")
}

// AIAnalysis is the classification summary returned on issue creation
type AIAnalysis struct {
	Category   types.Category `json:"category"`
	Severity   types.Severity `json:"severity"`
	Confidence float64        `json:"confidence"`
}

// IssueUpdate is a partial update; nil fields are left untouched
type IssueUpdate struct {
	Status      *types.Status   `json:"status,omitempty"`
	Severity    *types.Severity `json:"severity,omitempty"`
	Description *string         `json:"description,omitempty"`
}

// StatusUpdate builds an IssueUpdate changing only the status
func StatusUpdate(status types.Status) IssueUpdate {
	return IssueUpdate{Status: &status}
}

// IsEmpty returns true if the update changes nothing
func (u IssueUpdate) IsEmpty() bool {
	return u.Status == nil && u.Severity == nil && u.Description == nil
}

// UploadResult is the response of an image upload
type UploadResult struct {
	ImageURL string `json:"imageUrl"`
}
