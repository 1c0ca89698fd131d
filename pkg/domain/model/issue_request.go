package model

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/m-mizutani/goerr/v2"
)

var validate = newValidator()

// newValidator reports fields by their JSON name, or the lower-cased Go
// name for untagged form fields
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return strings.ToLower(fld.Name)
		}
		return name
	})
	return v
}

// CreateIssueRequest is the body of POST /issues
type CreateIssueRequest struct {
	ImageURL    string          `json:"imageUrl" validate:"required"`
	Description string          `json:"description,omitempty" validate:"max=1000"`
	Location    RequestLocation `json:"location"`
	ReportedBy  *Reporter       `json:"reportedBy,omitempty"`
}

// RequestLocation is the location block sent when creating an issue
type RequestLocation struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
	Address   string  `json:"address,omitempty"`
	City      string  `json:"city,omitempty"`
	State     string  `json:"state,omitempty"`
	Pincode   string  `json:"pincode,omitempty"`
}

// Validate checks the request before it is sent
func (r *CreateIssueRequest) Validate() error {
	return validationError(validate.Struct(r))
}

// CreateIssueResult is the response of POST /issues
type CreateIssueResult struct {
	Issue      *Issue      `json:"data"`
	AIAnalysis *AIAnalysis `json:"aiAnalysis"`
}

// ReportForm holds the raw text inputs of the report form
type ReportForm struct {
	ImageURL        string
	Description     string `validate:"max=1000"`
	Latitude        string `validate:"required,latitude"`
	Longitude       string `validate:"required,longitude"`
	Address         string
	City            string
	State           string
	Pincode         string
	ReporterName    string `validate:"max=100"`
	ReporterContact string `validate:"max=100"`
}

// Validate checks required fields and coordinate ranges
func (f *ReportForm) Validate() error {
	if f.ImageURL == "" {
		return ErrImageRequired
	}
	f.Latitude = strings.TrimSpace(f.Latitude)
	f.Longitude = strings.TrimSpace(f.Longitude)
	return validationError(validate.Struct(f))
}

// Build validates the form and assembles the create payload.
// Coordinates are parsed as floating point; optional text fields pass through.
func (f *ReportForm) Build() (*CreateIssueRequest, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	lat, err := strconv.ParseFloat(f.Latitude, 64)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid latitude", goerr.V("latitude", f.Latitude))
	}
	lng, err := strconv.ParseFloat(f.Longitude, 64)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid longitude", goerr.V("longitude", f.Longitude))
	}

	req := &CreateIssueRequest{
		ImageURL:    f.ImageURL,
		Description: f.Description,
		Location: RequestLocation{
			Latitude:  lat,
			Longitude: lng,
			Address:   f.Address,
			City:      f.City,
			State:     f.State,
			Pincode:   f.Pincode,
		},
	}
	if f.ReporterName != "" || f.ReporterContact != "" {
		req.ReportedBy = &Reporter{Name: f.ReporterName, Contact: f.ReporterContact}
	}

	return req, nil
}

// ValidationError lists the field problems of a rejected input
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Fields, ", ")
}

// validationError turns validator output into a *ValidationError
func validationError(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return goerr.Wrap(err, "validation failed")
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return &ValidationError{Fields: msgs}
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "latitude":
		return field + " must be between -90 and 90"
	case "longitude":
		return field + " must be between -180 and 180"
	case "max":
		return field + " must be at most " + fe.Param() + " characters"
	default:
		return field + " is invalid"
	}
}
