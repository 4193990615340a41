package blob

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreServer(t *testing.T, failFirst int) (*httptest.Server, *[]string) {
	t.Helper()

	var paths []string
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= failFirst {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		name := strings.TrimPrefix(r.URL.Path, "/")
		paths = append(paths, name)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(PutResult{
			URL:  "https://cdn.test/" + name,
			Name: name,
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &paths
}

func TestPut_ReturnsStoreURL(t *testing.T) {
	srv, paths := newStoreServer(t, 0)
	c := NewClient(srv.URL, "token")

	res, err := c.Put(context.Background(), "cover.jpg", []byte("bytes"), PutOptions{})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/cover.jpg", res.URL)
	assert.Equal(t, []string{"cover.jpg"}, *paths)
}

func TestPut_AllowRenameAddsSuffixBeforeExtension(t *testing.T) {
	srv, paths := newStoreServer(t, 0)
	c := NewClient(srv.URL, "token")

	res, err := c.Put(context.Background(), "page1.jpg", []byte("bytes"), PutOptions{AllowRename: true})
	require.NoError(t, err)

	require.Len(t, *paths, 1)
	stored := (*paths)[0]
	assert.NotEqual(t, "page1.jpg", stored)
	assert.True(t, strings.HasPrefix(stored, "page1-"), "got %q", stored)
	assert.True(t, strings.HasSuffix(stored, ".jpg"), "got %q", stored)
	assert.Equal(t, "https://cdn.test/"+stored, res.URL)

	// Two uploads of the same name never collide.
	_, err = c.Put(context.Background(), "page1.jpg", []byte("bytes"), PutOptions{AllowRename: true})
	require.NoError(t, err)
	require.Len(t, *paths, 2)
	assert.NotEqual(t, (*paths)[0], (*paths)[1])
}

func TestPut_RetriesTransientFailure(t *testing.T) {
	srv, paths := newStoreServer(t, 1)
	c := NewClient(srv.URL, "token")

	res, err := c.Put(context.Background(), "p.jpg", []byte("x"), PutOptions{})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/p.jpg", res.URL)
	assert.Len(t, *paths, 1)
}

func TestPut_DefinitiveFailureSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "bad-token")
	_, err := c.Put(context.Background(), "p.jpg", []byte("x"), PutOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestUploader_AlwaysRenames(t *testing.T) {
	srv, paths := newStoreServer(t, 0)
	u := Uploader{Client: NewClient(srv.URL, "token")}

	url, err := u.Put(context.Background(), "page2.jpg", []byte("x"))
	require.NoError(t, err)
	require.Len(t, *paths, 1)
	assert.NotEqual(t, "page2.jpg", (*paths)[0])
	assert.Equal(t, "https://cdn.test/"+(*paths)[0], url)
}
