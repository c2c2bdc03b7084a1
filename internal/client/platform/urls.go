package platform

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// urlBuilder derives HTTP URLs under the platform endpoint.
type urlBuilder struct {
	endpoint string
	project  string
}

func (b urlBuilder) build(query url.Values, segments ...string) (string, error) {
	u, err := url.Parse(strings.TrimRight(b.endpoint, "/"))
	if err != nil {
		return "", fmt.Errorf("parse endpoint %q: %w", b.endpoint, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("endpoint %q is not an absolute URL", b.endpoint)
	}
	u = u.JoinPath(segments...)
	if query == nil {
		query = url.Values{}
	}
	query.Set("project", b.project)
	u.RawQuery = query.Encode()
	return u.String(), nil
}

func (b urlBuilder) fileView(bucketID, fileID string) (string, error) {
	return b.build(nil, "storage", "buckets", bucketID, "files", fileID, "view")
}

func (b urlBuilder) filePreview(bucketID, fileID string, opts PreviewOptions) (string, error) {
	q := url.Values{}
	if opts.Width > 0 {
		q.Set("width", strconv.Itoa(opts.Width))
	}
	if opts.Height > 0 {
		q.Set("height", strconv.Itoa(opts.Height))
	}
	if opts.Gravity != "" {
		q.Set("gravity", opts.Gravity)
	}
	if opts.Quality > 0 {
		q.Set("quality", strconv.Itoa(opts.Quality))
	}
	return b.build(q, "storage", "buckets", bucketID, "files", fileID, "preview")
}

func (b urlBuilder) initials(name string) (string, error) {
	return b.build(url.Values{"name": {name}}, "avatars", "initials")
}
