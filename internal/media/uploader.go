// Package media uploads product images to a third-party host. The backend
// only stores the returned URLs; the host owns the bytes.
package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Uploader posts unsigned multipart uploads to the media host and returns
// the hosted URL.
type Uploader struct {
	endpoint string
	preset   string
	client   *http.Client
}

func NewUploader(endpoint, preset string) *Uploader {
	return &Uploader{
		endpoint: endpoint,
		preset:   preset,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether an endpoint is set. Product writes without one
// simply skip image handling.
func (u *Uploader) Configured() bool {
	return u.endpoint != ""
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
}

// Upload streams one file to the host and returns its secure URL.
func (u *Uploader) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if !u.Configured() {
		return "", errors.New("media host not configured")
	}

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		part, err := form.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		if u.preset != "" {
			if err := form.WriteField("upload_preset", u.preset); err != nil {
				pw.CloseWithError(err)
				return
			}
		}
		pw.CloseWithError(form.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, pr)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload: unexpected status %d", resp.StatusCode)
	}

	var body uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("upload: decode response: %w", err)
	}
	if body.SecureURL == "" && body.URL == "" {
		return "", errors.New("upload: no url in response")
	}
	if body.SecureURL != "" {
		return body.SecureURL, nil
	}
	return body.URL, nil
}
