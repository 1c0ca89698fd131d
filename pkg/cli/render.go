package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/secmon-lab/civicsnap/pkg/domain/types"
	"github.com/secmon-lab/civicsnap/pkg/format"
	"github.com/secmon-lab/civicsnap/pkg/view"
)

var (
	palette = map[string]*color.Color{
		format.ColorRed:     color.New(color.FgRed, color.Bold),
		format.ColorYellow:  color.New(color.FgYellow),
		format.ColorGreen:   color.New(color.FgGreen),
		format.ColorBlue:    color.New(color.FgBlue),
		format.ColorMagenta: color.New(color.FgMagenta),
		format.ColorGray:    color.New(color.FgHiBlack),
	}
	faint = color.New(color.Faint)
	bold  = color.New(color.Bold)
)

func paint(name, text string) string {
	if c, ok := palette[name]; ok {
		return c.Sprint(text)
	}
	return text
}

func severityText(s types.Severity) string {
	return paint(format.SeverityColor(s), format.SeverityEmoji(s)+" "+strings.ToUpper(s.String()))
}

func statusText(s types.Status) string {
	return paint(format.StatusColor(s), format.StatusEmoji(s)+" "+format.FormatStatus(s))
}

// renderer writes view snapshots as text
type renderer struct {
	w   io.Writer
	now func() time.Time
}

func newRenderer(w io.Writer) *renderer {
	return &renderer{w: w, now: time.Now}
}

func (r *renderer) list(title string, v view.IssueList) {
	fmt.Fprintln(r.w, bold.Sprint(title))
	if !v.Filter.IsEmpty() {
		fmt.Fprintln(r.w, faint.Sprint("filter: "+v.Filter.Query().Encode()))
	}

	switch v.State {
	case view.StateError:
		fmt.Fprintf(r.w, "%s\n", color.RedString(v.Error))
		fmt.Fprintln(r.w, faint.Sprint("Run the command again to retry."))
		return
	case view.StateEmpty:
		fmt.Fprintln(r.w, "No issues found.")
		fmt.Fprintln(r.w, faint.Sprint("Report one with: civicsnap report --image <file> --lat <lat> --lng <lng>"))
		return
	case view.StateLoading:
		fmt.Fprintln(r.w, faint.Sprint("Loading issues..."))
		return
	}

	tw := tabwriter.NewWriter(r.w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tSEVERITY\tSTATUS\tVOTES\tPRIORITY\tREPORTED\tDESCRIPTION")
	for _, issue := range v.Issues {
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\t%d\t%.0f\t%s\t%s\n",
			issue.ID,
			format.CategoryIcon(issue.Category), format.FormatCategory(issue.Category),
			severityText(issue.Severity),
			statusText(issue.Status),
			issue.Votes,
			issue.Priority,
			format.TimeAgo(issue.CreatedAt, r.now()),
			format.Truncate(issue.Description, 40),
		)
	}
	tw.Flush()
	fmt.Fprintf(r.w, "%d issue(s)\n", len(v.Issues))
}

func (r *renderer) detail(v view.IssueView) {
	switch v.State {
	case view.StateError:
		fmt.Fprintln(r.w, color.RedString(v.Error))
		return
	case view.StateLoading:
		fmt.Fprintln(r.w, faint.Sprint("Loading issue details..."))
		return
	}
	if v.Issue == nil {
		return
	}
	issue := v.Issue

	fmt.Fprintf(r.w, "%s %s\n", format.CategoryIcon(issue.Category), bold.Sprint(format.FormatCategory(issue.Category)))
	tw := tabwriter.NewWriter(r.w, 0, 2, 2, ' ', 0)
	row := func(k, v string) {
		if v != "" {
			fmt.Fprintf(tw, "%s\t%s\n", k, v)
		}
	}
	row("ID", issue.ID.String())
	row("Severity", severityText(issue.Severity))
	row("Status", statusText(issue.Status))
	row("Description", format.Truncate(issue.Description, format.DefaultTruncateLength))
	row("Votes", fmt.Sprint(issue.Votes))
	row("Views", fmt.Sprint(issue.ViewCount))
	row("Priority", fmt.Sprintf("%.0f", issue.Priority))
	row("AI confidence", format.FormatConfidence(issue.AIConfidence))
	row("AI model", issue.AIModel)
	if issue.Location.HasCoordinates() {
		row("Coordinates", fmt.Sprintf("%.4f, %.4f", issue.Location.Latitude(), issue.Location.Longitude()))
	}
	row("Address", joinNonEmpty(issue.Location.Address, issue.Location.City, issue.Location.State, issue.Location.Pincode))
	row("Image", issue.ImageURL)
	if !issue.ReportedBy.IsEmpty() {
		row("Reported by", joinNonEmpty(issue.ReportedBy.Name, issue.ReportedBy.Contact))
	}
	row("Reported", format.FormatDate(issue.CreatedAt)+" ("+format.TimeAgo(issue.CreatedAt, r.now())+")")
	if issue.ResolvedAt != nil {
		row("Resolved", format.FormatDate(*issue.ResolvedAt)+" ("+format.RelativeTime(*issue.ResolvedAt, r.now())+")")
	}
	tw.Flush()

	if len(v.Actions) > 0 {
		var next []string
		for _, s := range v.Actions {
			next = append(next, s.String())
		}
		fmt.Fprintln(r.w, faint.Sprint("Available status changes: "+strings.Join(next, ", ")))
	}
}

func (r *renderer) stats(v view.StatsView) {
	fmt.Fprintln(r.w, bold.Sprint("Platform Statistics"))
	switch v.State {
	case view.StateError:
		fmt.Fprintln(r.w, color.RedString(v.Error))
		return
	case view.StateEmpty:
		fmt.Fprintln(r.w, "No issues reported yet.")
		return
	case view.StateLoading:
		fmt.Fprintln(r.w, faint.Sprint("Loading statistics..."))
		return
	}

	tw := tabwriter.NewWriter(r.w, 0, 2, 2, ' ', 0)
	fmt.Fprintf(tw, "Total issues\t%d\n", v.Stats.Total)
	for _, s := range v.Stats.ByStatus {
		fmt.Fprintf(tw, "%s\t%d\n", statusText(types.Status(s.ID)), s.Count)
	}
	fmt.Fprintf(tw, "Average AI confidence\t%s\n", format.FormatConfidence(v.Stats.AverageAIConfidence))
	tw.Flush()

	if len(v.TopCategories) > 0 {
		fmt.Fprintln(r.w, bold.Sprint("Top categories"))
		for _, c := range v.TopCategories {
			cat := types.Category(c.ID)
			fmt.Fprintf(r.w, "  %s %s: %d\n", format.CategoryIcon(cat), format.FormatCategory(cat), c.Count)
		}
	}
}

func (r *renderer) analysis(v view.ReportView) {
	fmt.Fprintln(r.w, bold.Sprint("✅ Issue Reported Successfully!"))
	if v.Issue != nil {
		fmt.Fprintf(r.w, "ID: %s\n", v.Issue.ID)
	}
	if a := v.AIAnalysis; a != nil {
		conf := a.Confidence
		fmt.Fprintln(r.w, bold.Sprint("🤖 AI Analysis"))
		fmt.Fprintf(r.w, "  Category:   %s %s\n", format.CategoryIcon(a.Category), format.FormatCategory(a.Category))
		fmt.Fprintf(r.w, "  Severity:   %s\n", severityText(a.Severity))
		fmt.Fprintf(r.w, "  Confidence: %s\n", format.FormatConfidence(&conf))
	}
}

func (r *renderer) user(v view.NavbarView) {
	if v.User == nil {
		fmt.Fprintln(r.w, "Not logged in")
		return
	}
	fmt.Fprintf(r.w, "%s (%s)\n", bold.Sprint(v.User.Name), v.User.Role)
	if v.User.Email != "" {
		fmt.Fprintln(r.w, v.User.Email)
	}
	var links []string
	for _, l := range v.Links {
		links = append(links, l.Label+" "+l.Route)
	}
	fmt.Fprintln(r.w, faint.Sprint(strings.Join(links, " | ")))
}

// issueMap prints the map center and the plotted markers with their
// distance from it
func (r *renderer) issueMap(v view.IssueList) {
	fmt.Fprintln(r.w, bold.Sprint("Issue Map"))
	if v.State == view.StateError {
		fmt.Fprintln(r.w, color.RedString(v.Error))
		return
	}

	lat, lng := format.MapCenter(v.Issues)
	fmt.Fprintf(r.w, "Center: %.4f, %.4f\n", lat, lng)

	markers := format.MapMarkers(v.Issues)
	if len(markers) == 0 {
		fmt.Fprintln(r.w, "No issues to plot.")
		return
	}

	tw := tabwriter.NewWriter(r.w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tSTATUS\tPRIORITY\tCOORDINATES\tDISTANCE")
	for _, issue := range markers {
		coords, dist := "-", "-"
		if issue.Location.HasCoordinates() {
			iLat, iLng := issue.Location.Latitude(), issue.Location.Longitude()
			coords = fmt.Sprintf("%.4f, %.4f", iLat, iLng)
			dist = format.FormatDistance(format.Haversine(lat, lng, iLat, iLng))
		}
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%.0f (%s)\t%s\t%s\n",
			issue.ID,
			format.CategoryIcon(issue.Category), format.FormatCategory(issue.Category),
			format.StatusBadge(issue.Status),
			issue.Priority, format.PriorityColor(issue.Priority),
			coords, dist,
		)
	}
	tw.Flush()
	if len(v.Issues) > len(markers) {
		fmt.Fprintf(r.w, "%d of %d issues plotted\n", len(markers), len(v.Issues))
	}

	groups := format.GroupByCategory(v.Issues)
	var parts []string
	for _, c := range types.AllCategories {
		if n := len(groups[c]); n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", format.FormatCategory(c), n))
		}
	}
	fmt.Fprintln(r.w, faint.Sprint(strings.Join(parts, " | ")))
}

func (r *renderer) hint(route string) {
	if cmd, ok := routeCommands[route]; ok {
		fmt.Fprintln(r.w, faint.Sprint("next: "+cmd))
		return
	}
	if id, ok := view.ParseIssueRoute(route); ok {
		fmt.Fprintln(r.w, faint.Sprint("next: civicsnap show "+id.String()))
	}
}

var routeCommands = map[string]string{
	view.RouteHome:           "civicsnap home",
	view.RouteDashboard:      "civicsnap issues",
	view.RouteAdminDashboard: "civicsnap admin list",
	view.RouteLogin:          "civicsnap login",
	view.RouteReport:         "civicsnap report",
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
