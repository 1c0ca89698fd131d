package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/domain/interfaces"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
)

// UploadField is the multipart form field carrying the image
const UploadField = "image"

var _ interfaces.Uploader = (*Client)(nil)

// UploadImage sends an image as multipart form data and returns the
// reference to put in the issue's imageUrl
func (c *Client) UploadImage(ctx context.Context, name, contentType string, r io.Reader) (*model.UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+UploadField+`"; filename="`+escapeQuotes(name)+`"`)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, unexpected(goerr.Wrap(err, "failed to create multipart part"))
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, unexpected(goerr.Wrap(err, "failed to read image", goerr.V("name", name)))
	}
	if err := mw.Close(); err != nil {
		return nil, unexpected(goerr.Wrap(err, "failed to finish multipart body"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/upload/image", nil), &buf)
	if err != nil {
		return nil, unexpected(goerr.Wrap(err, "failed to create request"))
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	body, err := c.send(req)
	if err != nil {
		return nil, err
	}

	var result model.UploadResult
	if err := decodeData(body, &result); err != nil {
		return nil, err
	}
	if result.ImageURL == "" {
		// some deployments answer with a flat {imageUrl}
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, unexpected(goerr.Wrap(err, "failed to decode upload response"))
		}
	}
	if result.ImageURL == "" {
		return nil, &UnexpectedError{Message: "upload response has no image URL"}
	}
	return &result, nil
}

func escapeQuotes(s string) string {
	var b bytes.Buffer
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
