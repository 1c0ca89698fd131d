package view

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/client"
	"github.com/secmon-lab/civicsnap/pkg/domain/interfaces"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
)

// Messages of the report view
const (
	ReportedMessage      = "Issue reported successfully!"
	SubmitFailedMessage  = "Failed to submit issue"
	LocationMessage      = "Location captured successfully"
	locationFailedMsg    = "Unable to get location: "
	NoLocatorMessage     = "Geolocation is not available"
	ImageRequiredMessage = "Please upload an image first"
)

// Locator provides the current position of the reporter
type Locator interface {
	Locate(ctx context.Context) (lat, lng float64, err error)
}

// LocatorFunc adapts a function to Locator
type LocatorFunc func(ctx context.Context) (lat, lng float64, err error)

// Locate calls f(ctx)
func (f LocatorFunc) Locate(ctx context.Context) (float64, float64, error) {
	return f(ctx)
}

// ReportView is a snapshot of the report view
type ReportView struct {
	Form      model.ReportForm
	Upload    UploadView
	Loading   bool
	CanSubmit bool
	Error     string
	// Submitted switches the view to the success screen
	Submitted  bool
	Issue      *model.Issue
	AIAnalysis *model.AIAnalysis
}

// ReportIssue combines the upload control and the form. A successful
// submit shows the returned analysis and moves to the dashboard after
// ReportNavigateDelay.
type ReportIssue struct {
	issues  interfaces.IssueClient
	notify  interfaces.Notifier
	nav     interfaces.Navigator
	locator Locator
	later   *deferred

	form   IssueForm
	upload *ImageUpload

	mu        sync.Mutex
	loading   bool
	err       string
	submitted bool
	issue     *model.Issue
	analysis  *model.AIAnalysis
}

// ReportOption configures a ReportIssue
type ReportOption func(*ReportIssue)

// WithLocator sets the source of "use current location"
func WithLocator(l Locator) ReportOption {
	return func(r *ReportIssue) {
		r.locator = l
	}
}

// WithReportAfterFunc replaces the scheduler of the delayed navigation
func WithReportAfterFunc(after AfterFunc) ReportOption {
	return func(r *ReportIssue) {
		r.later = newDeferred(after)
	}
}

// NewReportIssue creates the report view
func NewReportIssue(issues interfaces.IssueClient, uploader interfaces.Uploader, notify interfaces.Notifier, nav interfaces.Navigator, opts ...ReportOption) *ReportIssue {
	r := &ReportIssue{
		issues: issues,
		notify: notify,
		nav:    nav,
		later:  newDeferred(nil),
	}
	r.upload = NewImageUpload(uploader, notify, r.imageUploaded)
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Upload returns the image upload control of the form
func (r *ReportIssue) Upload() *ImageUpload {
	return r.upload
}

// Form returns the form inputs
func (r *ReportIssue) Form() *IssueForm {
	return &r.form
}

func (r *ReportIssue) imageUploaded(imageURL string) {
	r.form.SetImage(imageURL)
	r.mu.Lock()
	r.err = ""
	r.mu.Unlock()
}

// UseCurrentLocation fills latitude and longitude from the locator
func (r *ReportIssue) UseCurrentLocation(ctx context.Context) error {
	if r.locator == nil {
		r.notify.Error(NoLocatorMessage)
		return goerr.New("no locator configured")
	}

	lat, lng, err := r.locator.Locate(ctx)
	if err != nil {
		r.notify.Error(locationFailedMsg + err.Error())
		return goerr.Wrap(err, "failed to get location")
	}

	r.form.SetLocation(strconv.FormatFloat(lat, 'f', -1, 64), strconv.FormatFloat(lng, 'f', -1, 64))
	r.notify.Success(LocationMessage)
	return nil
}

// CanSubmit reports whether the submit action is enabled
func (r *ReportIssue) CanSubmit() bool {
	r.mu.Lock()
	busy := r.loading || r.submitted
	r.mu.Unlock()
	return !busy && r.form.HasImage() && !r.upload.Snapshot().Uploading
}

// Submit builds the payload from the form and creates the issue
func (r *ReportIssue) Submit(ctx context.Context) (*model.CreateIssueResult, error) {
	if !r.form.HasImage() {
		r.setError(ImageRequiredMessage)
		return nil, model.ErrImageRequired
	}

	r.mu.Lock()
	if r.loading || r.submitted {
		r.mu.Unlock()
		return nil, ErrActionInFlight
	}
	r.loading = true
	r.err = ""
	r.analysis = nil
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.loading = false
		r.mu.Unlock()
	}()

	req, err := r.form.Build()
	if err != nil {
		r.reportFailure(err)
		return nil, err
	}

	result, err := r.issues.CreateIssue(ctx, req)
	if err != nil {
		r.reportFailure(err)
		return nil, goerr.Wrap(err, "failed to create issue")
	}

	r.mu.Lock()
	r.submitted = true
	r.issue = result.Issue.Copy()
	if result.AIAnalysis != nil {
		a := *result.AIAnalysis
		r.analysis = &a
	}
	r.mu.Unlock()

	ctxlog.From(ctx).Info("Issue reported", "id", issueID(result.Issue))
	r.notify.Success(ReportedMessage)
	r.later.schedule(ReportNavigateDelay, func() {
		r.nav.Navigate(RouteDashboard)
	})
	return result, nil
}

func (r *ReportIssue) reportFailure(err error) {
	msg := client.Message(err)
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		msg = verr.Error()
	}
	if msg == "" {
		msg = SubmitFailedMessage
	}
	r.setError(msg)
	r.notify.Error(msg)
}

func (r *ReportIssue) setError(msg string) {
	r.mu.Lock()
	r.err = msg
	r.mu.Unlock()
}

// Unmount cancels the pending navigation
func (r *ReportIssue) Unmount() {
	r.later.stop()
}

// Wait blocks until the upload control finished its background work
func (r *ReportIssue) Wait(ctx context.Context) error {
	return r.upload.Wait(ctx)
}

// Snapshot returns a copy of the current view state
func (r *ReportIssue) Snapshot() ReportView {
	v := ReportView{
		Form:      r.form.Values(),
		Upload:    r.upload.Snapshot(),
		CanSubmit: r.CanSubmit(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	v.Loading = r.loading
	v.Error = r.err
	v.Submitted = r.submitted
	v.Issue = r.issue.Copy()
	if r.analysis != nil {
		a := *r.analysis
		v.AIAnalysis = &a
	}
	return v
}

func issueID(issue *model.Issue) string {
	if issue == nil {
		return ""
	}
	return issue.ID.String()
}
