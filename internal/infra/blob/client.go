package blob

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Client talks to the blob store's HTTP API: POST <base>/<name> with the
// raw bytes, bearer-authenticated, returning the public URL of the stored
// object. The store may fail per call; it never silently corrupts data.
type Client struct {
	http *resty.Client
}

type PutOptions struct {
	// AllowRename asks for a collision-avoiding storage name: a random
	// suffix goes before the extension, so two uploads both named
	// "page1.jpg" end up as distinct objects.
	AllowRename bool
	ContentType string
}

type PutResult struct {
	URL  string `json:"url"`
	Name string `json:"pathname"`
}

func NewClient(baseURL, token string) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(token).
		SetTimeout(60 * time.Second)
	c.SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
	return &Client{http: c}
}

// Put uploads data under name and returns the store's answer. The retry
// policy covers transient transport and 5xx failures of a single call;
// a definitive failure is returned to the caller unretried.
func (c *Client) Put(ctx context.Context, name string, data []byte, opts PutOptions) (*PutResult, error) {
	storageName := name
	if opts.AllowRename {
		storageName = renamed(name)
	}

	contentType := opts.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var result PutResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(data).
		SetResult(&result).
		Post("/" + storageName)
	if err != nil {
		return nil, fmt.Errorf("blob put %q: %w", name, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("blob put %q: store returned %s", name, resp.Status())
	}
	if result.URL == "" {
		return nil, fmt.Errorf("blob put %q: store returned no url", name)
	}
	if result.Name == "" {
		result.Name = storageName
	}
	return &result, nil
}

func renamed(name string) string {
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return base + "-" + suffix + ext
}

// Uploader adapts Client to the single-method upload interface the
// ingestion pipeline consumes. Every upload requests a rename.
type Uploader struct {
	Client *Client
}

func (u Uploader) Put(ctx context.Context, name string, data []byte) (string, error) {
	res, err := u.Client.Put(ctx, name, data, PutOptions{AllowRename: true})
	if err != nil {
		return "", err
	}
	return res.URL, nil
}
