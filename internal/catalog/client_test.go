package catalog

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arcanaland/decktech/internal/card"
	"github.com/arcanaland/decktech/internal/logging"
)

const singleFaced = `{
	"name": "Lightning Bolt",
	"layout": "normal",
	"image_uris": {
		"small": "https://img.test/bolt-small.jpg",
		"large": "https://img.test/bolt-large.jpg",
		"art_crop": "https://img.test/bolt-crop.jpg"
	}
}`

const doubleFaced = `{
	"name": "Delver of Secrets // Insectile Aberration",
	"layout": "transform",
	"card_faces": [
		{"name": "Delver of Secrets", "image_uris": {"large": "https://img.test/delver-large.jpg", "art_crop": "https://img.test/delver-crop.jpg"}},
		{"name": "Insectile Aberration", "image_uris": {"large": "https://img.test/insect-large.jpg", "art_crop": "https://img.test/insect-crop.jpg"}}
	]
}`

const noImages = `{"name": "Mystery", "layout": "normal"}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *observer.ObservedLogs) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	core, logs := observer.New(zapcore.DebugLevel)
	c := NewClient(Options{BaseURL: ts.URL + "/", UserAgent: "decktech-test"}, logging.FromZap(zap.New(core)))
	return c, logs
}

func TestFetchCardInfo_SingleFaced(t *testing.T) {
	var gotName, gotAgent, gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotName = r.URL.Query().Get("exact")
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(singleFaced))
	})

	ref := c.FetchCardInfo(context.Background(), "lightning bolt")

	assert.Equal(t, "/cards/named", gotPath)
	assert.Equal(t, "lightning bolt", gotName)
	assert.Equal(t, "decktech-test", gotAgent)
	assert.Equal(t, card.ImageRef{
		FullImageURL: "https://img.test/bolt-large.jpg",
		CropImageURL: "https://img.test/bolt-crop.jpg",
	}, ref)
}

func TestFetchCardInfo_EscapesName(t *testing.T) {
	var rawQuery, gotName string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		gotName = r.URL.Query().Get("exact")
		_, _ = w.Write([]byte(singleFaced))
	})

	c.FetchCardInfo(context.Background(), "fire // ice & friends?")

	assert.Equal(t, "fire // ice & friends?", gotName)
	assert.NotContains(t, rawQuery, "&friends")
	assert.NotContains(t, rawQuery, "?")
}

func TestFetchCardInfo_DoubleFaced(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(doubleFaced))
	})

	ref := c.FetchCardInfo(context.Background(), "delver of secrets")

	assert.Equal(t, "https://img.test/delver-large.jpg", ref.FullImageURL)
	assert.Equal(t, "https://img.test/delver-crop.jpg", ref.CropImageURL)
}

func TestFetchCardInfo_NoImage(t *testing.T) {
	c, logs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(noImages))
	})

	ref := c.FetchCardInfo(context.Background(), "mystery")

	assert.True(t, ref.Empty())
	assert.Equal(t, 1, logs.FilterMessage("No image available").Len())
	assert.Equal(t, 0, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestFetchCardInfo_FailuresDegradeToEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"object":"error"}`, http.StatusNotFound)
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"image_uris": `))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, logs := newTestClient(t, tt.handler)

			ref := c.FetchCardInfo(context.Background(), "anything")

			assert.Equal(t, card.ImageRef{}, ref)
			assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
		})
	}
}

func TestFetchCardInfo_NetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := ts.URL
	ts.Close()

	c := NewClient(Options{BaseURL: baseURL}, nil)
	ref := c.FetchCardInfo(context.Background(), "lightning bolt")
	assert.True(t, ref.Empty())
}

func TestLookup_CancelledContext(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(singleFaced))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Lookup(ctx, "lightning bolt")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLookup_NoImageSentinel(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(noImages))
	})

	_, err := c.Lookup(context.Background(), "mystery")
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestExtractImages(t *testing.T) {
	t.Run("top-level image set without large falls back to faces", func(t *testing.T) {
		record := Card{
			ImageURIs: &ImageURIs{ArtCrop: "crop-only"},
			CardFaces: []CardFace{{ImageURIs: &ImageURIs{Large: "face-large", ArtCrop: "face-crop"}}},
		}
		ref, ok := ExtractImages(record)
		require.True(t, ok)
		assert.Equal(t, "face-large", ref.FullImageURL)
		assert.Equal(t, "face-crop", ref.CropImageURL)
	})

	t.Run("faces without image sets", func(t *testing.T) {
		record := Card{CardFaces: []CardFace{{Name: "front"}, {Name: "back"}}}
		ref, ok := ExtractImages(record)
		assert.False(t, ok)
		assert.True(t, ref.Empty())
	})
}

func TestFetchImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(buf.Bytes())
		case "/garbage.png":
			_, _ = w.Write([]byte("not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	c := NewClient(Options{}, nil)

	got, err := c.FetchImage(context.Background(), ts.URL+"/ok.png")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 4), got.Bounds())

	_, err = c.FetchImage(context.Background(), ts.URL+"/garbage.png")
	assert.Error(t, err)

	_, err = c.FetchImage(context.Background(), ts.URL+"/missing.png")
	assert.Error(t, err)

	_, err = c.FetchImage(context.Background(), "")
	assert.Error(t, err)
}
