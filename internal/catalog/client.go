package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arcanaland/decktech/internal/card"
	"github.com/arcanaland/decktech/internal/logging"
)

// ErrNoImage is returned by Lookup when the record has no usable image set
var ErrNoImage = errors.New("no image available")

// ImageURIs is the image set of a card or card face
type ImageURIs struct {
	Large   string `json:"large"`
	ArtCrop string `json:"art_crop"`
}

// CardFace is one side of a multi-faced card
type CardFace struct {
	Name      string     `json:"name"`
	ImageURIs *ImageURIs `json:"image_uris"`
}

// Card is the subset of a catalog card record the viewer needs
type Card struct {
	Name      string     `json:"name"`
	Layout    string     `json:"layout"`
	ImageURIs *ImageURIs `json:"image_uris"`
	CardFaces []CardFace `json:"card_faces"`
}

// Options configures a Client
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration // zero means no timeout
}

// Client looks card names up in the catalog service
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	log       *logging.Logger
}

// NewClient creates a catalog client
func NewClient(opts Options, log *logging.Logger) *Client {
	if log == nil {
		log = logging.Nop()
	}
	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		http:      &http.Client{Timeout: opts.Timeout},
		log:       log,
	}
}

// FetchCardInfo resolves name to its image URLs. It never fails: any error is
// logged and an empty ImageRef is returned so the caller can carry on.
func (c *Client) FetchCardInfo(ctx context.Context, name string) card.ImageRef {
	ref, err := c.Lookup(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNoImage) {
			c.log.Log("No image available", "card", name)
		} else {
			c.log.Error("Error fetching card data", "card", name, "error", err)
		}
		return card.ImageRef{}
	}
	return ref
}

// Lookup is FetchCardInfo with the failure exposed
func (c *Client) Lookup(ctx context.Context, name string) (card.ImageRef, error) {
	endpoint := fmt.Sprintf("%s/cards/named?exact=%s", c.baseURL, url.QueryEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return card.ImageRef{}, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return card.ImageRef{}, fmt.Errorf("error fetching card: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return card.ImageRef{}, fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
	}

	var record Card
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return card.ImageRef{}, fmt.Errorf("error decoding card: %w", err)
	}

	c.log.Debug("Card resolved", "card", name, "layout", record.Layout)

	ref, ok := ExtractImages(record)
	if !ok {
		return card.ImageRef{}, ErrNoImage
	}
	return ref, nil
}

// ExtractImages picks the large and art-crop URLs from a record, falling back to
// the first face of a multi-faced card.
func ExtractImages(record Card) (card.ImageRef, bool) {
	if record.ImageURIs != nil && record.ImageURIs.Large != "" {
		return card.ImageRef{
			FullImageURL: record.ImageURIs.Large,
			CropImageURL: record.ImageURIs.ArtCrop,
		}, true
	}

	if len(record.CardFaces) > 0 && record.CardFaces[0].ImageURIs != nil {
		face := record.CardFaces[0].ImageURIs
		return card.ImageRef{
			FullImageURL: face.Large,
			CropImageURL: face.ArtCrop,
		}, true
	}

	return card.ImageRef{}, false
}

// FetchImage downloads and decodes the image at imageURL
func (c *Client) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	if imageURL == "" {
		return nil, fmt.Errorf("empty image URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("error downloading image: HTTP %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return img, nil
}
