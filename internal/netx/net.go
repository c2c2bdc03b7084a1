// Package netx contains the HTTP upload used for presigned object URLs.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// MaxErrorBody caps how much of a failed response body ends up in an error.
const MaxErrorBody = 1 << 10

// UploadToPresignedURL PUTs size bytes from body to a presigned URL.
// Any status other than 200/201/204 is an error carrying the response body.
// A nil client means http.DefaultClient.
func UploadToPresignedURL(ctx context.Context, client *http.Client, url string, body io.Reader, size int64, contentType string) error {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return err
	}
	req.ContentLength = size
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return nil
	default:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBody))
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
}
