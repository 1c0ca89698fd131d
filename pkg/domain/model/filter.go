package model

import (
	"net/url"

	"github.com/secmon-lab/civicsnap/pkg/domain/types"
)

// Filter enumerates the recognised list filters. An empty field means
// "no constraint" and is not sent.
type Filter struct {
	Category types.Category
	Severity types.Severity
	Status   types.Status
}

// Query compiles the filter into query parameters for GET /issues
func (f Filter) Query() url.Values {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category.String())
	}
	if f.Severity != "" {
		q.Set("severity", f.Severity.String())
	}
	if f.Status != "" {
		q.Set("status", f.Status.String())
	}
	return q
}

// IsEmpty returns true if no constraint is set
func (f Filter) IsEmpty() bool {
	return f == Filter{}
}
