package view

import "github.com/secmon-lab/civicsnap/pkg/domain/types"

// Routes navigated to by views
const (
	RouteHome           = "/"
	RouteDashboard      = "/dashboard"
	RouteAdminDashboard = "/admin/dashboard"
	RouteLogin          = "/login"
	RouteReport         = "/report"
	routeIssuePrefix    = "/issues/"
)

// IssueRoute returns the detail route of an issue
func IssueRoute(id types.IssueID) string {
	return routeIssuePrefix + id.String()
}

// ParseIssueRoute extracts the issue ID from a detail route
func ParseIssueRoute(path string) (types.IssueID, bool) {
	if len(path) <= len(routeIssuePrefix) || path[:len(routeIssuePrefix)] != routeIssuePrefix {
		return "", false
	}
	return types.IssueID(path[len(routeIssuePrefix):]), true
}
