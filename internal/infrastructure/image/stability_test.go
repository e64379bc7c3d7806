package image

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kidz-story-api/internal/config"
	"kidz-story-api/internal/infrastructure/storage"
	apperrors "kidz-story-api/pkg/errors"
)

func TestStabilityClient_Generate(t *testing.T) {
	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "image/*", r.Header.Get("Accept"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		form = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			form[k] = v[0]
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
	}))
	defer srv.Close()

	c := NewStabilityClient(&config.ImageConfig{Endpoint: srv.URL, APIKey: "sk-test", Timeout: time.Second})
	data, err := c.Generate(context.Background(), "a dragon in space")
	require.NoError(t, err)

	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, data)
	assert.Equal(t, map[string]string{
		"prompt":        "a dragon in space",
		"aspect_ratio":  "1:1",
		"output_format": "jpeg",
		"model":         "sd3.5-large-turbo",
	}, form)
}

func TestStabilityClient_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"errors":["overloaded"]}`))
	}))
	defer srv.Close()

	c := NewStabilityClient(&config.ImageConfig{Endpoint: srv.URL, APIKey: "sk-test"})
	_, err := c.Generate(context.Background(), "p")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode())
	assert.Equal(t, `Stability API Error: 503 - {"errors":["overloaded"]}`, err.Error())
}

func TestStabilityClient_MissingKey(t *testing.T) {
	c := NewStabilityClient(&config.ImageConfig{Endpoint: "http://unused"})
	_, err := c.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

type fakeGenerator struct {
	data []byte
	err  error
}

func (f fakeGenerator) Generate(context.Context, string) ([]byte, error) { return f.data, f.err }

type fakeUploader struct {
	key         string
	contentType string
	err         error
}

func (f *fakeUploader) Upload(_ context.Context, key string, _ []byte, contentType string) (string, error) {
	f.key, f.contentType = key, contentType
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.example.com/kidzTory_images/" + key, nil
}

func TestIllustrator_GenerateAndUpload(t *testing.T) {
	up := &fakeUploader{}
	il := NewIllustrator(fakeGenerator{data: []byte("img")}, up, "")
	il.now = func() time.Time { return time.UnixMilli(1700000000123) }

	url, err := il.GenerateAndUpload(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Regexp(t, `^image_1700000000123_[0-9a-f]{8}\.jpeg$`, up.key)
	assert.Equal(t, "image/jpeg", up.contentType)
	assert.Equal(t, "https://cdn.example.com/kidzTory_images/"+up.key, url)
}

func TestIllustrator_KeysUniqueWithinMillisecond(t *testing.T) {
	il := NewIllustrator(fakeGenerator{data: []byte("img")}, &fakeUploader{}, "png")
	il.now = func() time.Time { return time.UnixMilli(42) }

	first, err := il.GenerateAndUpload(context.Background(), "a")
	require.NoError(t, err)
	second, err := il.GenerateAndUpload(context.Background(), "b")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

type countingGenerator struct{ calls int }

func (g *countingGenerator) Generate(context.Context, string) ([]byte, error) {
	g.calls++
	return []byte("img"), nil
}

func TestIllustrator_SkipsGenerationWhenStorageUnavailable(t *testing.T) {
	gen := &countingGenerator{}
	il := NewIllustrator(gen, storage.Unavailable{Err: storage.ErrNotConfigured}, "jpeg")

	_, err := il.GenerateAndUpload(context.Background(), "p")
	require.ErrorIs(t, err, storage.ErrNotConfigured)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotConfigured))
	assert.Zero(t, gen.calls, "no paid image call without a place to store it")
}

func TestIllustrator_Failures(t *testing.T) {
	_, err := NewIllustrator(fakeGenerator{err: errors.New("boom")}, &fakeUploader{}, "jpeg").
		GenerateAndUpload(context.Background(), "p")
	assert.EqualError(t, err, "boom")

	_, err = NewIllustrator(fakeGenerator{data: []byte("x")}, &fakeUploader{err: errors.New("denied")}, "jpeg").
		GenerateAndUpload(context.Background(), "p")
	assert.EqualError(t, err, "upload image: denied")
}
