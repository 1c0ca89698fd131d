package view

import (
	"sync"

	"github.com/secmon-lab/civicsnap/pkg/domain/model"
)

// IssueForm holds the raw inputs of the report form. Submission stays
// disabled until an image reference is present.
type IssueForm struct {
	mu   sync.Mutex
	form model.ReportForm
}

// Update edits the form inputs
func (f *IssueForm) Update(fn func(form *model.ReportForm)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(&f.form)
}

// SetImage stores the reference returned by the upload
func (f *IssueForm) SetImage(imageURL string) {
	f.Update(func(form *model.ReportForm) {
		form.ImageURL = imageURL
	})
}

// SetLocation fills the coordinates
func (f *IssueForm) SetLocation(lat, lng string) {
	f.Update(func(form *model.ReportForm) {
		form.Latitude = lat
		form.Longitude = lng
	})
}

// HasImage reports whether an image reference is present
func (f *IssueForm) HasImage() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form.ImageURL != ""
}

// Values returns a copy of the inputs
func (f *IssueForm) Values() model.ReportForm {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

// Build validates the inputs and assembles the create payload
func (f *IssueForm) Build() (*model.CreateIssueRequest, error) {
	form := f.Values()
	return form.Build()
}
