package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves the subset of the S3 API used by the store
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte // bucket/key
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(req.URL.Path, "/")
	bucket, key, _ := strings.Cut(path, "/")

	if req.Method == http.MethodGet && req.URL.Query().Get("list-type") == "2" {
		prefix := req.URL.Query().Get("prefix")
		var keys []string
		for k := range f.objects {
			b, rest, _ := strings.Cut(k, "/")
			if b == bucket && strings.HasPrefix(rest, prefix) {
				keys = append(keys, rest)
			}
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString(`<?xml version="1.0"?><ListBucketResult><IsTruncated>false</IsTruncated>`)
		for _, k := range keys {
			fmt.Fprintf(&b, "<Contents><Key>%s</Key><Size>%d</Size></Contents>", k, len(f.objects[bucket+"/"+k]))
		}
		b.WriteString("</ListBucketResult>")
		return respond(http.StatusOK, []byte(b.String())), nil
	}

	id := bucket + "/" + key
	switch req.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		if dec, ok := decodeChunked(body); ok {
			body = dec
		}
		f.objects[id] = body
		return respond(http.StatusOK, nil), nil
	case http.MethodHead, http.MethodGet:
		body, ok := f.objects[id]
		if !ok {
			return respond(http.StatusNotFound, nil), nil
		}
		if req.Method == http.MethodHead {
			body = nil
		}
		return respond(http.StatusOK, body), nil
	case http.MethodDelete:
		delete(f.objects, id)
		return respond(http.StatusNoContent, nil), nil
	}
	return respond(http.StatusNotImplemented, nil), nil
}

func respond(status int, body []byte) *http.Response {
	return &http.Response{
		StatusCode:    status,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Header:        http.Header{"Content-Type": {"application/xml"}},
	}
}

// decodeChunked unwraps a single-chunk aws-chunked payload
func decodeChunked(b []byte) ([]byte, bool) {
	parts := strings.Split(string(b), "\r\n")
	if len(parts) < 3 || parts[2] != "0" {
		return nil, false
	}
	var size int
	if _, err := fmt.Sscanf(parts[0], "%x", &size); err != nil || size != len(parts[1]) {
		return nil, false
	}
	return []byte(parts[1]), true
}

func newTestS3(t *testing.T) (*S3, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: make(map[string][]byte)}
	s, err := NewS3(context.Background(), S3Config{
		Region:          "us-east-1",
		Endpoint:        "https://s3.test.local",
		PathStyle:       true,
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		HTTPClient:      &http.Client{Transport: fake},
	})
	require.NoError(t, err)
	return s, fake
}

func writeFile(t *testing.T, s Store, name, content string) {
	t.Helper()
	w, err := s.Create(context.Background(), name)
	require.NoError(t, err)
	_, err = io.WriteString(w, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func readFile(t *testing.T, s Store, name string) string {
	t.Helper()
	r, err := s.Open(context.Background(), name)
	require.NoError(t, err)
	defer r.Close()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(b)
}

func TestFS(t *testing.T) {
	ctx := context.Background()
	s := NewFS()
	dir := t.TempDir()
	name := filepath.Join(dir, "out", "Project", "S1.json")

	writeFile(t, s, name, `{"Name":"S1"}`)
	assert.Equal(t, `{"Name":"S1"}`, readFile(t, s, name))

	ok, err := s.FileExists(ctx, name)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.FileExists(ctx, filepath.Join(dir, "out"))
	require.NoError(t, err)
	assert.False(t, ok, "directory is not a file")

	ok, err = s.DirectoryExists(ctx, filepath.Join(dir, "out", "Project"))
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.RemoveAll(ctx, filepath.Join(dir, "out")))
	_, err = os.Stat(filepath.Join(dir, "out"))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, s.RemoveAll(ctx, filepath.Join(dir, "missing")))

	_, err = s.Open(ctx, name)
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestS3(t *testing.T) {
	ctx := context.Background()
	s, fake := newTestS3(t)

	writeFile(t, s, "s3://snapshots/out/Project/S1.json", `{"Name":"S1"}`)
	writeFile(t, s, "s3://snapshots/out/Project/S1.yaml", "Name: S1\n")
	writeFile(t, s, "s3://snapshots/other.json", "{}")
	assert.Len(t, fake.objects, 3)

	assert.Equal(t, `{"Name":"S1"}`, readFile(t, s, "s3://snapshots/out/Project/S1.json"))

	ok, err := s.FileExists(ctx, "s3://snapshots/other.json")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.FileExists(ctx, "s3://snapshots/nope.json")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.DirectoryExists(ctx, "s3://snapshots/out/Project")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.RemoveAll(ctx, "s3://snapshots/out"))
	assert.Len(t, fake.objects, 1)

	ok, err = s.DirectoryExists(ctx, "s3://snapshots/out/Project")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Open(ctx, "s3://snapshots/out/Project/S1.json")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestMux(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	m := &Mux{FS: NewFS()}
	writeFile(t, m, filepath.Join(dir, "a.json"), "{}")
	_, err := m.Open(ctx, "s3://bucket/a.json")
	assert.Error(t, err, "s3 not configured")

	s, _ := newTestS3(t)
	m.S3 = s
	writeFile(t, m, "s3://bucket/a.json", "{}")
	ok, err := m.FileExists(ctx, "s3://bucket/a.json")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestJoin(t *testing.T) {
	tests := []struct {
		name string
		base string
		elem []string
		want string
	}{
		{"s3", "s3://bucket/out", []string{"Project", "S1.json"}, "s3://bucket/out/Project/S1.json"},
		{"s3 trailing slash", "s3://bucket/out/", []string{"Project"}, "s3://bucket/out/Project"},
		{"path", "out", []string{"Project"}, filepath.Join("out", "Project")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Join(tt.base, tt.elem...))
		})
	}
}

func TestParseURI(t *testing.T) {
	bucket, key, err := parseURI("s3://bucket/dir/file.json")
	require.NoError(t, err)
	assert.Equal(t, "bucket", bucket)
	assert.Equal(t, "dir/file.json", key)

	_, _, err = parseURI("s3:///file.json")
	assert.Error(t, err)
}
