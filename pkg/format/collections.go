package format

import (
	"sort"
	"time"

	"github.com/secmon-lab/civicsnap/pkg/domain/model"
	"github.com/secmon-lab/civicsnap/pkg/domain/types"
)

// GroupByCategory buckets issues by category; a missing category counts as other
func GroupByCategory(issues []*model.Issue) map[types.Category][]*model.Issue {
	groups := make(map[types.Category][]*model.Issue)
	for _, issue := range issues {
		c := issue.Category
		if c == "" {
			c = types.CategoryOther
		}
		groups[c] = append(groups[c], issue)
	}
	return groups
}

// SortByPriority returns a sorted copy, highest priority first when desc is set
func SortByPriority(issues []*model.Issue, desc bool) []*model.Issue {
	sorted := make([]*model.Issue, len(issues))
	copy(sorted, issues)

	sort.SliceStable(sorted, func(i, j int) bool {
		if desc {
			return sorted[i].Priority > sorted[j].Priority
		}
		return sorted[i].Priority < sorted[j].Priority
	})
	return sorted
}

// FilterByDateRange keeps issues created within [start, end]
func FilterByDateRange(issues []*model.Issue, start, end time.Time) []*model.Issue {
	var result []*model.Issue
	for _, issue := range issues {
		if issue.CreatedAt.Before(start) || issue.CreatedAt.After(end) {
			continue
		}
		result = append(result, issue)
	}
	return result
}
