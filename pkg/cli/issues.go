package cli

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
	"github.com/secmon-lab/civicsnap/pkg/domain/types"
	"github.com/secmon-lab/civicsnap/pkg/format"
	"github.com/secmon-lab/civicsnap/pkg/view"
	"github.com/urfave/cli/v3"
)

// mountable is the lifecycle shared by the fetching views
type mountable interface {
	Mount(ctx context.Context) error
	Wait(ctx context.Context) error
	Unmount()
}

// mountAndWait mounts v and blocks until its first fetch settled
func mountAndWait(ctx context.Context, v mountable) error {
	if err := v.Mount(ctx); err != nil {
		return err
	}
	return v.Wait(ctx)
}

// filterFlags binds --category, --severity and --status
type filterFlags struct {
	category string
	severity string
	status   string
}

func (f *filterFlags) Flags(defaultStatus string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "category",
			Usage:       "Filter by category (pothole, garbage, broken_light, water_leakage, graffiti, other)",
			Destination: &f.category,
		},
		&cli.StringFlag{
			Name:        "severity",
			Usage:       "Filter by severity (critical, moderate, minor)",
			Destination: &f.severity,
		},
		&cli.StringFlag{
			Name:        "status",
			Usage:       "Filter by status (reported, in_progress, resolved, rejected)",
			Value:       defaultStatus,
			Destination: &f.status,
		},
	}
}

// Filter validates the flag values
func (f *filterFlags) Filter() (model.Filter, error) {
	filter := model.Filter{
		Category: types.Category(f.category),
		Severity: types.Severity(f.severity),
		Status:   types.Status(f.status),
	}
	if filter.Category != "" && !filter.Category.IsValid() {
		return filter, goerr.New("unknown category", goerr.V("category", f.category))
	}
	if filter.Severity != "" && !filter.Severity.IsValid() {
		return filter, goerr.New("unknown severity", goerr.V("severity", f.severity))
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return filter, goerr.New("unknown status", goerr.V("status", f.status))
	}
	return filter, nil
}

// arrangeFlags binds --sort and --since, applied to the fetched list
type arrangeFlags struct {
	sort  string
	since time.Duration
}

func (a *arrangeFlags) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sort",
			Usage:       "Order of the list (newest, priority)",
			Value:       "newest",
			Destination: &a.sort,
			Validator: func(v string) error {
				if v != "newest" && v != "priority" {
					return goerr.New("unknown sort order", goerr.V("sort", v))
				}
				return nil
			},
		},
		&cli.DurationFlag{
			Name:        "since",
			Usage:       "Only issues reported within this duration, e.g. 72h",
			Destination: &a.since,
		},
	}
}

// Apply narrows and orders the issues of a loaded list
func (a *arrangeFlags) Apply(v view.IssueList, now time.Time) view.IssueList {
	if v.State != view.StateLoaded {
		return v
	}
	if a.since > 0 {
		v.Issues = format.FilterByDateRange(v.Issues, now.Add(-a.since), now)
	}
	if a.sort == "priority" {
		v.Issues = format.SortByPriority(v.Issues, true)
	}
	return v
}

func issueArg(c *cli.Command) (types.IssueID, error) {
	id := types.IssueID(c.Args().First())
	if err := id.Validate(); err != nil {
		return "", err
	}
	return id, nil
}

func cmdHome(g *globals) *cli.Command {
	return &cli.Command{
		Name:  "home",
		Usage: "Show platform statistics",
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := g.open(ctx, c)
			if err != nil {
				return err
			}
			defer rt.Close()

			home := view.NewHome(rt.client)
			defer home.Unmount()
			if err := mountAndWait(ctx, home); err != nil {
				return err
			}
			newRenderer(rt.out).stats(home.Snapshot())
			return nil
		},
	}
}

// openDashboard mounts the citizen dashboard with the given filter
func openDashboard(ctx context.Context, rt *runtime, filter model.Filter) (*view.Dashboard, error) {
	dash := view.NewDashboard(rt.client, rt.bus)
	if err := dash.SetFilter(filter); err != nil {
		return nil, err
	}
	if err := mountAndWait(ctx, dash); err != nil {
		dash.Unmount()
		return nil, err
	}
	return dash, nil
}

func cmdIssues(g *globals) *cli.Command {
	var (
		ff filterFlags
		af arrangeFlags
	)

	return &cli.Command{
		Name:    "issues",
		Aliases: []string{"ls"},
		Usage:   "List reported issues",
		Flags:   append(ff.Flags(""), af.Flags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			filter, err := ff.Filter()
			if err != nil {
				return err
			}

			rt, err := g.open(ctx, c)
			if err != nil {
				return err
			}
			defer rt.Close()

			dash, err := openDashboard(ctx, rt, filter)
			if err != nil {
				return err
			}
			defer dash.Unmount()

			r := newRenderer(rt.out)
			r.list("Issue Dashboard", af.Apply(dash.Snapshot(), r.now()))
			return nil
		},
	}
}

func cmdMap(g *globals) *cli.Command {
	var ff filterFlags

	return &cli.Command{
		Name:  "map",
		Usage: "Show where issues are, centered on their mean location",
		Flags: ff.Flags(""),
		Action: func(ctx context.Context, c *cli.Command) error {
			filter, err := ff.Filter()
			if err != nil {
				return err
			}

			rt, err := g.open(ctx, c)
			if err != nil {
				return err
			}
			defer rt.Close()

			dash, err := openDashboard(ctx, rt, filter)
			if err != nil {
				return err
			}
			defer dash.Unmount()

			newRenderer(rt.out).issueMap(dash.Snapshot())
			return nil
		},
	}
}

func cmdShow(g *globals) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one issue",
		ArgsUsage: "<issue-id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := issueArg(c)
			if err != nil {
				return err
			}

			rt, err := g.open(ctx, c)
			if err != nil {
				return err
			}
			defer rt.Close()

			detail := view.NewIssueDetail(id, rt.client, rt.client, rt.bus, rt.nav)
			defer detail.Unmount()
			if err := mountAndWait(ctx, detail); err != nil {
				return err
			}
			newRenderer(rt.out).detail(detail.Snapshot())
			return nil
		},
	}
}

func cmdVote(g *globals) *cli.Command {
	return &cli.Command{
		Name:      "vote",
		Usage:     "Upvote an issue",
		ArgsUsage: "<issue-id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := issueArg(c)
			if err != nil {
				return err
			}

			rt, err := g.open(ctx, c)
			if err != nil {
				return err
			}
			defer rt.Close()

			detail := view.NewIssueDetail(id, rt.client, rt.client, rt.bus, rt.nav)
			defer detail.Unmount()
			if err := mountAndWait(ctx, detail); err != nil {
				return err
			}
			if err := detail.Vote(ctx); err != nil {
				return err
			}
			newRenderer(rt.out).detail(detail.Snapshot())
			return nil
		},
	}
}
