package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// maxCollaboratorReply bounds how much of a collaborator reply is read.
const maxCollaboratorReply = 4 << 20

// postVideo streams the file at videoPath to url as a multipart form with
// the single file field "video" and returns the raw 2xx reply body.
func postVideo(ctx context.Context, client *http.Client, url, videoPath string) ([]byte, error) {
	file, err := os.Open(videoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open video: %w", err)
	}

	pr, pw := io.Pipe()
	form := multipart.NewWriter(pw)
	go func() {
		defer file.Close()
		part, err := form.CreateFormFile("video", filepath.Base(videoPath))
		if err == nil {
			_, err = io.Copy(part, file)
		}
		if err == nil {
			err = form.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, pr)
	if err != nil {
		pr.Close()
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCollaboratorReply))
	if err != nil {
		return nil, fmt.Errorf("failed to read reply: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(truncate(string(body), 200)))
	}
	return body, nil
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + path
}
