package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/domain/interfaces"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
)

// MaxImageSize is the largest accepted upload
const MaxImageSize = 5 << 20

// Image implements ImageUseCase
type Image struct {
	repo interfaces.Repository
	now  func() time.Time
}

// NewImage creates a new Image use case
func NewImage(ctx context.Context, repo interfaces.Repository) *Image {
	return &Image{
		repo: repo,
		now:  time.Now,
	}
}

var _ ImageUseCase = (*Image)(nil)

// Upload sniffs the content type, rejects non-images and oversized files,
// and stores the image under a generated name keeping the original stem
// so that the name stays meaningful to the classifier.
func (i *Image) Upload(ctx context.Context, filename string, data []byte) (*model.Image, error) {
	if len(data) == 0 {
		return nil, ErrNoImage
	}
	if len(data) > MaxImageSize {
		return nil, goerr.Wrap(ErrImageTooLarge, "upload", goerr.V("size", len(data)))
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, goerr.Wrap(ErrNotImage, "upload", goerr.V("mime", mt.String()))
	}

	image := &model.Image{
		Name:        imageName(filename, mt.Extension()),
		ContentType: mt.String(),
		Data:        data,
		CreatedAt:   i.now(),
	}
	if err := i.repo.PutImage(ctx, image); err != nil {
		return nil, goerr.Wrap(err, "failed to save image")
	}
	return image, nil
}

// Get returns a stored image
func (i *Image) Get(ctx context.Context, name string) (*model.Image, error) {
	return i.repo.GetImage(ctx, name)
}

func imageName(filename, ext string) string {
	stem := filename
	if idx := strings.LastIndexAny(stem, `/\`); idx >= 0 {
		stem = stem[idx+1:]
	}
	if idx := strings.LastIndex(stem, "."); idx > 0 {
		stem = stem[:idx]
	}

	var b strings.Builder
	for _, r := range strings.ToLower(stem) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}

	id := uuid.NewString()[:8]
	if b.Len() == 0 {
		return id + ext
	}
	return b.String() + "-" + id + ext
}
