package view_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/civicsnap/pkg/client"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
	"github.com/secmon-lab/civicsnap/pkg/domain/types"
	"github.com/secmon-lab/civicsnap/pkg/view"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestImageUploadValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects a 6 MiB image without uploading", func(t *testing.T) {
		uploader := &fakeUploader{}
		notify := &fakeNotifier{}
		u := view.NewImageUpload(uploader, notify, nil)

		big := append(append([]byte(nil), pngHeader...), make([]byte, 6<<20)...)
		err := u.SelectFile(ctx, "big.png", bytes.NewReader(big))
		gt.True(t, errors.Is(err, view.ErrImageTooLarge))
		gt.Equal(t, uploader.count(), 0)
		gt.Equal(t, notify.last().text, view.ImageTooLargeMessage)
		gt.Equal(t, u.Snapshot().Error, view.ImageTooLargeMessage)
	})

	t.Run("rejects non-image content", func(t *testing.T) {
		uploader := &fakeUploader{}
		notify := &fakeNotifier{}
		u := view.NewImageUpload(uploader, notify, nil)

		err := u.DropFile(ctx, "notes.png", strings.NewReader("just some text"))
		gt.True(t, errors.Is(err, view.ErrNotImage))
		gt.Equal(t, uploader.count(), 0)
		gt.Equal(t, notify.last().text, view.NotImageMessage)
	})

	t.Run("picker and drop share validation", func(t *testing.T) {
		for _, enter := range []func(u *view.ImageUpload) error{
			func(u *view.ImageUpload) error { return u.SelectFile(ctx, "a.txt", strings.NewReader("text")) },
			func(u *view.ImageUpload) error { return u.DropFile(ctx, "a.txt", strings.NewReader("text")) },
		} {
			uploader := &fakeUploader{}
			u := view.NewImageUpload(uploader, &fakeNotifier{}, nil)
			gt.True(t, errors.Is(enter(u), view.ErrNotImage))
			gt.Equal(t, uploader.count(), 0)
		}
	})

	t.Run("accepted image uploads with a preview", func(t *testing.T) {
		uploader := &fakeUploader{}
		var got string
		u := view.NewImageUpload(uploader, &fakeNotifier{}, func(url string) { got = url })

		gt.NoError(t, u.SelectFile(ctx, "pothole.png", bytes.NewReader(pngHeader)))
		gt.NoError(t, u.Wait(ctx))

		snap := u.Snapshot()
		gt.False(t, snap.Uploading)
		gt.Equal(t, snap.ImageURL, "http://localhost:5000/uploads/pothole.png")
		gt.Equal(t, got, snap.ImageURL)
		gt.True(t, strings.HasPrefix(snap.Preview, "data:image/png;base64,"))
		gt.Equal(t, uploader.calls, []string{"image/png"})
	})

	t.Run("upload failure keeps the preview", func(t *testing.T) {
		uploader := &fakeUploader{err: &client.ServerError{StatusCode: 400, Message: "No image file provided"}}
		notify := &fakeNotifier{}
		u := view.NewImageUpload(uploader, notify, nil)

		gt.Error(t, u.SelectFile(ctx, "pothole.png", bytes.NewReader(pngHeader)))
		gt.NoError(t, u.Wait(ctx))

		snap := u.Snapshot()
		gt.Equal(t, snap.ImageURL, "")
		gt.True(t, strings.HasPrefix(snap.Preview, "data:image/png;base64,"))
		gt.Equal(t, notify.last().text, "Failed to upload image: No image file provided")
	})
}

func fillLocation(form *model.ReportForm) {
	form.Latitude = "28.7041"
	form.Longitude = "77.1025"
	form.Description = "Pothole near the bus stop"
}

func TestReportIssueSubmit(t *testing.T) {
	ctx := context.Background()
	analysis := &model.AIAnalysis{Category: types.CategoryPothole, Severity: types.SeverityCritical, Confidence: 0.92}

	t.Run("submit disabled without image", func(t *testing.T) {
		issues := newFakeIssues()
		r := view.NewReportIssue(issues, &fakeUploader{}, &fakeNotifier{}, &fakeNavigator{})
		r.Form().Update(fillLocation)

		gt.False(t, r.CanSubmit())
		_, err := r.Submit(ctx)
		gt.True(t, errors.Is(err, model.ErrImageRequired))
		gt.Equal(t, r.Snapshot().Error, view.ImageRequiredMessage)
		gt.A(t, issues.creates).Length(0)
	})

	t.Run("success screen shows the analysis", func(t *testing.T) {
		clock := &manualClock{}
		issues := newFakeIssues()
		issues.analysis = analysis
		notify := &fakeNotifier{}
		nav := &fakeNavigator{}
		r := view.NewReportIssue(issues, &fakeUploader{}, notify, nav, view.WithReportAfterFunc(clock.AfterFunc))
		defer r.Unmount()

		gt.NoError(t, r.Upload().SelectFile(ctx, "pothole.png", bytes.NewReader(pngHeader)))
		gt.NoError(t, r.Wait(ctx))
		r.Form().Update(fillLocation)
		gt.True(t, r.CanSubmit())

		result, err := r.Submit(ctx)
		gt.NoError(t, err).Required()
		gt.Equal(t, result.AIAnalysis, analysis)

		snap := r.Snapshot()
		gt.True(t, snap.Submitted)
		gt.Equal(t, snap.AIAnalysis, analysis)
		gt.False(t, snap.CanSubmit)
		gt.Equal(t, issues.creates[0].Location.Latitude, 28.7041)
		gt.Equal(t, notify.last(), toastRecord{kind: types.ToastSuccess, text: view.ReportedMessage})

		gt.A(t, nav.visited()).Length(0)
		gt.Equal(t, clock.fire(), []time.Duration{view.ReportNavigateDelay})
		gt.Equal(t, nav.visited(), []string{view.RouteDashboard})
	})

	t.Run("failed re-upload drops the previous image", func(t *testing.T) {
		uploader := &fakeUploader{}
		r := view.NewReportIssue(newFakeIssues(), uploader, &fakeNotifier{}, &fakeNavigator{})
		r.Form().Update(fillLocation)

		gt.NoError(t, r.Upload().SelectFile(ctx, "pothole.png", bytes.NewReader(pngHeader)))
		gt.True(t, r.CanSubmit())

		uploader.mu.Lock()
		uploader.err = &client.ServerError{StatusCode: 500, Message: "Upload failed"}
		uploader.mu.Unlock()
		gt.Error(t, r.Upload().DropFile(ctx, "other.png", bytes.NewReader(pngHeader)))
		gt.NoError(t, r.Wait(ctx))

		gt.False(t, r.CanSubmit())
		gt.Equal(t, r.Form().Values().ImageURL, "")
	})

	t.Run("server error is shown", func(t *testing.T) {
		issues := newFakeIssues()
		issues.createErr = &client.ServerError{StatusCode: 400, Message: "Image URL is required"}
		notify := &fakeNotifier{}
		r := view.NewReportIssue(issues, &fakeUploader{}, notify, &fakeNavigator{})
		r.Form().SetImage("http://localhost:5000/uploads/a.png")
		r.Form().Update(fillLocation)

		_, err := r.Submit(ctx)
		gt.Error(t, err)
		gt.Equal(t, r.Snapshot().Error, "Image URL is required")
		gt.Equal(t, notify.last().text, "Image URL is required")
		gt.True(t, r.CanSubmit())
	})

	t.Run("invalid coordinates never reach the backend", func(t *testing.T) {
		issues := newFakeIssues()
		r := view.NewReportIssue(issues, &fakeUploader{}, &fakeNotifier{}, &fakeNavigator{})
		r.Form().SetImage("http://localhost:5000/uploads/a.png")
		r.Form().SetLocation("95", "77")

		_, err := r.Submit(ctx)
		gt.Error(t, err)
		gt.S(t, r.Snapshot().Error).Contains("latitude must be between -90 and 90")
		gt.A(t, issues.creates).Length(0)
	})
}

func TestReportIssueLocation(t *testing.T) {
	ctx := context.Background()

	t.Run("fills coordinates", func(t *testing.T) {
		notify := &fakeNotifier{}
		locator := view.LocatorFunc(func(context.Context) (float64, float64, error) {
			return 12.9716, 77.5946, nil
		})
		r := view.NewReportIssue(newFakeIssues(), &fakeUploader{}, notify, &fakeNavigator{}, view.WithLocator(locator))

		gt.NoError(t, r.UseCurrentLocation(ctx))
		form := r.Snapshot().Form
		gt.Equal(t, form.Latitude, "12.9716")
		gt.Equal(t, form.Longitude, "77.5946")
		gt.Equal(t, notify.last(), toastRecord{kind: types.ToastSuccess, text: view.LocationMessage})
	})

	t.Run("locator failure", func(t *testing.T) {
		notify := &fakeNotifier{}
		locator := view.LocatorFunc(func(context.Context) (float64, float64, error) {
			return 0, 0, goerr.New("permission denied")
		})
		r := view.NewReportIssue(newFakeIssues(), &fakeUploader{}, notify, &fakeNavigator{}, view.WithLocator(locator))

		gt.Error(t, r.UseCurrentLocation(ctx))
		gt.Equal(t, notify.last().text, "Unable to get location: permission denied")
	})

	t.Run("no locator", func(t *testing.T) {
		notify := &fakeNotifier{}
		r := view.NewReportIssue(newFakeIssues(), &fakeUploader{}, notify, &fakeNavigator{})
		gt.Error(t, r.UseCurrentLocation(ctx))
		gt.Equal(t, notify.last().text, view.NoLocatorMessage)
	})
}
