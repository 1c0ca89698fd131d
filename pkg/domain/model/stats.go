package model

// Stats is the aggregate returned by GET /issues/stats
type Stats struct {
	Total               int         `json:"total"`
	ByStatus            []StatCount `json:"byStatus"`
	ByCategory          []StatCount `json:"byCategory"`
	AverageAIConfidence *float64    `json:"averageAIConfidence,omitempty"`
}

// StatCount is one bucket of an aggregate
type StatCount struct {
	ID    string `json:"_id"`
	Count int    `json:"count"`
}

// TopCategories returns at most n category buckets in server order
func (s *Stats) TopCategories(n int) []StatCount {
	if s == nil {
		return nil
	}
	if len(s.ByCategory) <= n {
		return s.ByCategory
	}
	return s.ByCategory[:n]
}

// IsEmpty returns true when there is nothing to show
func (s *Stats) IsEmpty() bool {
	return s == nil || s.Total == 0
}
