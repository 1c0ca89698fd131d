package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
	"github.com/secmon-lab/civicsnap/pkg/view"
	"github.com/urfave/cli/v3"
)

func cmdReport(g *globals) *cli.Command {
	var (
		image   string
		form    model.ReportForm
		here    bool
		hereLat float64
		hereLng float64
	)

	return &cli.Command{
		Name:  "report",
		Usage: "Report a new issue with a photo",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "image",
				Usage:       "Path to the photo (max 5MB)",
				Required:    true,
				Destination: &image,
			},
			&cli.StringFlag{Name: "description", Usage: "What is the problem", Destination: &form.Description},
			&cli.StringFlag{Name: "lat", Usage: "Latitude", Destination: &form.Latitude},
			&cli.StringFlag{Name: "lng", Usage: "Longitude", Destination: &form.Longitude},
			&cli.StringFlag{Name: "address", Usage: "Street address", Destination: &form.Address},
			&cli.StringFlag{Name: "city", Usage: "City", Destination: &form.City},
			&cli.StringFlag{Name: "state", Usage: "State", Destination: &form.State},
			&cli.StringFlag{Name: "pincode", Usage: "Postal code", Destination: &form.Pincode},
			&cli.StringFlag{Name: "name", Usage: "Your name (optional)", Destination: &form.ReporterName},
			&cli.StringFlag{Name: "contact", Usage: "Your phone or email (optional)", Destination: &form.ReporterContact},
			&cli.BoolFlag{
				Name:        "here",
				Usage:       "Use the current location from CIVICSNAP_LATITUDE and CIVICSNAP_LONGITUDE",
				Destination: &here,
			},
			&cli.FloatFlag{
				Name:        "here-lat",
				Hidden:      true,
				Sources:     cli.EnvVars("CIVICSNAP_LATITUDE"),
				Destination: &hereLat,
			},
			&cli.FloatFlag{
				Name:        "here-lng",
				Hidden:      true,
				Sources:     cli.EnvVars("CIVICSNAP_LONGITUDE"),
				Destination: &hereLng,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			rt, err := g.open(ctx, c)
			if err != nil {
				return err
			}
			defer rt.Close()

			var opts []view.ReportOption
			if c.IsSet("here-lat") && c.IsSet("here-lng") {
				opts = append(opts, view.WithLocator(view.LocatorFunc(func(context.Context) (float64, float64, error) {
					return hereLat, hereLng, nil
				})))
			}

			report := view.NewReportIssue(rt.client, rt.client, rt.bus, rt.nav, opts...)
			defer report.Unmount()

			f, err := os.Open(image)
			if err != nil {
				return goerr.Wrap(err, "failed to open image", goerr.V("path", image))
			}
			defer f.Close()

			if err := report.Upload().SelectFile(ctx, filepath.Base(image), f); err != nil {
				return err
			}

			report.Form().Update(func(current *model.ReportForm) {
				imageURL := current.ImageURL
				*current = form
				current.ImageURL = imageURL
			})
			if here {
				if err := report.UseCurrentLocation(ctx); err != nil {
					return err
				}
			}

			if !report.CanSubmit() {
				return goerr.New(view.ImageRequiredMessage)
			}
			if _, err := report.Submit(ctx); err != nil {
				return err
			}

			r := newRenderer(rt.out)
			r.analysis(report.Snapshot())
			r.hint(view.RouteDashboard)
			return nil
		},
	}
}
