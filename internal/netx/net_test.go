package netx

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUploadToPresignedURL(t *testing.T) {
	file := []byte("hello, bucket")

	t.Run("success 200 OK", func(t *testing.T) {
		var gotBody []byte
		var gotCT, gotMethod string
		var gotLen int64

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotCT = r.Header.Get("Content-Type")
			gotLen = r.ContentLength
			gotBody, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		err := UploadToPresignedURL(context.Background(), ts.Client(), ts.URL+"/obj?X-Amz-Signature=abc",
			bytes.NewReader(file), int64(len(file)), "image/png")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotMethod != http.MethodPut {
			t.Fatalf("method = %q, want PUT", gotMethod)
		}
		if gotCT != "image/png" {
			t.Fatalf("Content-Type = %q, want image/png", gotCT)
		}
		if gotLen != int64(len(file)) {
			t.Fatalf("Content-Length = %d, want %d", gotLen, len(file))
		}
		if !bytes.Equal(gotBody, file) {
			t.Fatalf("body = %q, want %q", string(gotBody), string(file))
		}
	})

	t.Run("empty content type defaults to octet-stream", func(t *testing.T) {
		var gotCT string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotCT = r.Header.Get("Content-Type")
			w.WriteHeader(http.StatusNoContent)
		}))
		defer ts.Close()

		if err := UploadToPresignedURL(context.Background(), nil, ts.URL, bytes.NewReader(file), int64(len(file)), ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotCT != "application/octet-stream" {
			t.Fatalf("Content-Type = %q", gotCT)
		}
	})

	t.Run("non-2xx -> error with body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("SignatureDoesNotMatch"))
		}))
		defer ts.Close()

		err := UploadToPresignedURL(context.Background(), nil, ts.URL, bytes.NewReader(file), int64(len(file)), "")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "upload failed: 403") || !strings.Contains(err.Error(), "SignatureDoesNotMatch") {
			t.Fatalf("error = %q", err.Error())
		}
	})

	t.Run("network error", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		ts.Close()

		err := UploadToPresignedURL(context.Background(), nil, ts.URL, bytes.NewReader(file), int64(len(file)), "")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if strings.Contains(err.Error(), "upload failed") {
			t.Fatalf("got wrong kind of error: %v", err)
		}
	})
}
