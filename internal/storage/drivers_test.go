package storage

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBucket = "stl-library"

// fakeObjectEndpoint speaks just enough of the S3 REST dialect for the
// driver paths under test: the bucket exists, every object key is missing
// and bucket policy uploads are captured.
type fakeObjectEndpoint struct {
	*httptest.Server

	mu       sync.Mutex
	policies []string
}

func newFakeObjectEndpoint(t *testing.T) *fakeObjectEndpoint {
	t.Helper()

	fake := &fakeObjectEndpoint{}
	fake.Server = httptest.NewServer(http.HandlerFunc(fake.serve))
	t.Cleanup(fake.Close)
	return fake
}

func (f *fakeObjectEndpoint) serve(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	trimmed := strings.TrimPrefix(r.URL.Path, "/")
	bucket, key, _ := strings.Cut(trimmed, "/")
	bucket = strings.TrimSuffix(bucket, "/")

	switch {
	case query.Has("location"):
		w.Header().Set("Content-Type", "application/xml")
		_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><LocationConstraint xmlns="http://s3.amazonaws.com/doc/2006-03-01/">us-east-1</LocationConstraint>`)
	case query.Has("policy") && r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.policies = append(f.policies, string(body))
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	case bucket == testBucket && key == "":
		w.WriteHeader(http.StatusOK)
	default:
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusNotFound)
		if r.Method != http.MethodHead {
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message><Key>`+key+`</Key><BucketName>`+bucket+`</BucketName></Error>`)
		}
	}
}

func (f *fakeObjectEndpoint) recordedPolicies() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.policies...)
}

func (f *fakeObjectEndpoint) host() string {
	return strings.TrimPrefix(f.URL, "http://")
}

func newFakeMinIO(t *testing.T, fake *fakeObjectEndpoint) *MinIOClient {
	t.Helper()

	client, err := NewMinIOClient(config.MinIOConfig{
		Endpoint:       fake.host(),
		PublicEndpoint: fake.host(),
		AccessKey:      "stlib",
		SecretKey:      "stlib_secret",
		Bucket:         testBucket,
	}, "")
	require.NoError(t, err)
	return client
}

func newFakeS3(t *testing.T, fake *fakeObjectEndpoint) *S3Client {
	t.Helper()

	client, err := NewS3Client(context.Background(), config.S3Config{
		Region:       "us-east-1",
		Bucket:       testBucket,
		Endpoint:     fake.URL,
		AccessKey:    "key",
		SecretKey:    "secret",
		UsePathStyle: true,
	}, "")
	require.NoError(t, err)
	return client
}

func TestPublicReadPolicy(t *testing.T) {
	raw, err := PublicReadPolicy(testBucket)
	require.NoError(t, err)

	var doc struct {
		Version   string
		Statement []struct {
			Effect    string
			Principal map[string][]string
			Action    []string
			Resource  []string
		}
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "2012-10-17", doc.Version)
	require.Len(t, doc.Statement, 1)

	stmt := doc.Statement[0]
	assert.Equal(t, "Allow", stmt.Effect)
	assert.Equal(t, []string{"*"}, stmt.Principal["AWS"])
	assert.Equal(t, []string{"s3:GetObject"}, stmt.Action)
	assert.ElementsMatch(t, []string{
		"arn:aws:s3:::stl-library/models/*",
		"arn:aws:s3:::stl-library/thumbnails/*",
	}, stmt.Resource)

	_, err = PublicReadPolicy("")
	assert.Error(t, err)
}

func TestDriverPublicURLs(t *testing.T) {
	minioWith := func(cfg config.MinIOConfig, base string) ObjectStore {
		client, err := NewMinIOClient(cfg, base)
		require.NoError(t, err)
		return client
	}
	s3With := func(cfg config.S3Config, base string) ObjectStore {
		client, err := NewS3Client(context.Background(), cfg, base)
		require.NoError(t, err)
		return client
	}

	testCases := []struct {
		name  string
		store ObjectStore
		key   string
		want  string
	}{
		{
			name:  "minio plain http",
			store: minioWith(config.MinIOConfig{Endpoint: "minio:9000", PublicEndpoint: "localhost:9000", Bucket: "stl"}, ""),
			key:   "models/owner/id.stl",
			want:  "http://localhost:9000/stl/models/owner/id.stl",
		},
		{
			name:  "minio public base url wins",
			store: minioWith(config.MinIOConfig{Endpoint: "minio:9000", PublicEndpoint: "localhost:9000", Bucket: "stl"}, "https://cdn.example.com"),
			key:   "thumbnails/owner/id.png",
			want:  "https://cdn.example.com/thumbnails/owner/id.png",
		},
		{
			name:  "s3 custom endpoint is path style",
			store: s3With(config.S3Config{Region: "us-east-1", Bucket: "stl", Endpoint: "http://localstack:4566", AccessKey: "k", SecretKey: "s"}, ""),
			key:   "models/owner/id.stl",
			want:  "http://localstack:4566/stl/models/owner/id.stl",
		},
		{
			name:  "s3 default is virtual hosted",
			store: s3With(config.S3Config{Region: "eu-west-1", Bucket: "stl", AccessKey: "k", SecretKey: "s"}, ""),
			key:   "thumbnails/owner/id.png",
			want:  "https://stl.s3.eu-west-1.amazonaws.com/thumbnails/owner/id.png",
		},
		{
			name:  "s3 public base url wins",
			store: s3With(config.S3Config{Region: "eu-west-1", Bucket: "stl", AccessKey: "k", SecretKey: "s"}, "https://files.example.com/stl"),
			key:   "models/owner/id.stl",
			want:  "https://files.example.com/stl/models/owner/id.stl",
		},
		{
			name:  "memory default base",
			store: NewMemoryStore(""),
			key:   "models/owner/id.stl",
			want:  "/storage/models/owner/id.stl",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.store.PublicURL(tc.key))
		})
	}

	assert.Equal(t, "/models/a.stl", joinURL("", "models/a.stl"))
}

func TestMinIOClientAgainstFakeEndpoint(t *testing.T) {
	ctx := context.Background()

	t.Run("ensure bucket applies public read policy", func(t *testing.T) {
		fake := newFakeObjectEndpoint(t)
		client := newFakeMinIO(t, fake)

		require.NoError(t, client.EnsureBucket(ctx))

		policies := fake.recordedPolicies()
		require.Len(t, policies, 1)
		assert.Contains(t, policies[0], "arn:aws:s3:::stl-library/models/*")
		assert.Contains(t, policies[0], "arn:aws:s3:::stl-library/thumbnails/*")
	})

	t.Run("missing key maps to ErrObjectNotFound", func(t *testing.T) {
		fake := newFakeObjectEndpoint(t)
		client := newFakeMinIO(t, fake)

		rc, err := client.Download(ctx, "models/owner/missing.stl")
		assert.Nil(t, rc)
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})
}

func TestS3ClientAgainstFakeEndpoint(t *testing.T) {
	ctx := context.Background()

	t.Run("ensure bucket applies public read policy", func(t *testing.T) {
		fake := newFakeObjectEndpoint(t)
		client := newFakeS3(t, fake)

		require.NoError(t, client.EnsureBucket(ctx))

		policies := fake.recordedPolicies()
		require.Len(t, policies, 1)
		assert.Contains(t, policies[0], "arn:aws:s3:::stl-library/models/*")
		assert.Contains(t, policies[0], "arn:aws:s3:::stl-library/thumbnails/*")
	})

	t.Run("missing key maps to ErrObjectNotFound", func(t *testing.T) {
		fake := newFakeObjectEndpoint(t)
		client := newFakeS3(t, fake)

		rc, err := client.Download(ctx, "models/owner/missing.stl")
		assert.Nil(t, rc)
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})
}
