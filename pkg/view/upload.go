package view

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/client"
	"github.com/secmon-lab/civicsnap/pkg/domain/interfaces"
	"github.com/secmon-lab/civicsnap/pkg/utils/async"
)

// MaxImageSize is the largest image accepted for upload
const MaxImageSize = 5 << 20

// Messages of the image upload control
const (
	NotImageMessage      = "Please upload an image file"
	ImageTooLargeMessage = "Image size must be less than 5MB"
	uploadFailedMsg      = "Failed to upload image: "
)

var (
	ErrNotImage      = goerr.New(NotImageMessage)
	ErrImageTooLarge = goerr.New(ImageTooLargeMessage)
)

// UploadView is a snapshot of the upload control
type UploadView struct {
	Uploading bool
	Preview   string // data URL of the last accepted file
	ImageURL  string
	Error     string
}

// ImageUpload validates a picked or dropped file and uploads it. Rejected
// files never reach the network. The preview and the upload start together
// and finish independently.
type ImageUpload struct {
	uploader   interfaces.Uploader
	notify     interfaces.Notifier
	onUploaded func(imageURL string)

	mu        sync.Mutex
	uploading bool
	preview   string
	imageURL  string
	err       string
	seq       uint64

	group async.Group
}

// NewImageUpload creates the upload control. onUploaded receives an empty
// reference when an upload starts and the image reference once it succeeds.
func NewImageUpload(uploader interfaces.Uploader, notify interfaces.Notifier, onUploaded func(imageURL string)) *ImageUpload {
	return &ImageUpload{
		uploader:   uploader,
		notify:     notify,
		onUploaded: onUploaded,
	}
}

// SelectFile handles a file chosen in the file picker
func (u *ImageUpload) SelectFile(ctx context.Context, name string, r io.Reader) error {
	return u.process(ctx, name, r)
}

// DropFile handles a file dropped on the control
func (u *ImageUpload) DropFile(ctx context.Context, name string, r io.Reader) error {
	return u.process(ctx, name, r)
}

func (u *ImageUpload) process(ctx context.Context, name string, r io.Reader) error {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		u.fail(uploadFailedMsg + err.Error())
		return goerr.Wrap(err, "failed to read image", goerr.V("name", name))
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		u.fail(NotImageMessage)
		return goerr.Wrap(ErrNotImage, "rejected file", goerr.V("name", name), goerr.V("mime", mime.String()))
	}
	if len(data) > MaxImageSize {
		u.fail(ImageTooLargeMessage)
		return goerr.Wrap(ErrImageTooLarge, "rejected file", goerr.V("name", name))
	}

	u.mu.Lock()
	if u.uploading {
		u.mu.Unlock()
		return ErrActionInFlight
	}
	u.uploading = true
	u.imageURL = ""
	u.err = ""
	u.seq++
	seq := u.seq
	u.mu.Unlock()

	// the previous reference is dropped until this upload settles
	if u.onUploaded != nil {
		u.onUploaded("")
	}

	u.group.Go(ctx, func(context.Context) error {
		preview := "data:" + mime.String() + ";base64," + base64.StdEncoding.EncodeToString(data)
		u.mu.Lock()
		if u.seq == seq {
			u.preview = preview
		}
		u.mu.Unlock()
		return nil
	})

	ctxlog.From(ctx).Debug("Uploading image", "name", name, "mime", mime.String(), "size", len(data))
	result, err := u.uploader.UploadImage(ctx, name, mime.String(), bytes.NewReader(data))

	u.mu.Lock()
	u.uploading = false
	if err != nil {
		u.mu.Unlock()
		u.fail(uploadFailedMsg + client.Message(err))
		return goerr.Wrap(err, "failed to upload image", goerr.V("name", name))
	}
	u.imageURL = result.ImageURL
	u.mu.Unlock()

	if u.onUploaded != nil {
		u.onUploaded(result.ImageURL)
	}
	return nil
}

func (u *ImageUpload) fail(msg string) {
	u.mu.Lock()
	u.err = msg
	u.mu.Unlock()
	u.notify.Error(msg)
}

// Wait blocks until preview generation has finished
func (u *ImageUpload) Wait(ctx context.Context) error {
	return u.group.Wait(ctx)
}

// Snapshot returns the current state of the control
func (u *ImageUpload) Snapshot() UploadView {
	u.mu.Lock()
	defer u.mu.Unlock()
	return UploadView{
		Uploading: u.uploading,
		Preview:   u.preview,
		ImageURL:  u.imageURL,
		Error:     u.err,
	}
}
