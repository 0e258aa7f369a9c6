package card

// GroupSize is the number of cards shown together on one page.
const GroupSize = 4

// ImageRef holds the catalog image URLs for a card. Empty strings mean not found.
type ImageRef struct {
	FullImageURL string `json:"full_image_url" yaml:"full_image_url"` // Large card image
	CropImageURL string `json:"crop_image_url" yaml:"crop_image_url"` // Art crop, used as page background
}

// Empty reports whether neither image was found
func (r ImageRef) Empty() bool {
	return r.FullImageURL == "" && r.CropImageURL == ""
}

// Entry is one resolved decklist line
type Entry struct {
	Image ImageRef `json:"image" yaml:"image"`
	Count int      `json:"count" yaml:"count"`
}

// Group is a page of at most GroupSize entries
type Group []Entry

// BackgroundURL returns the first non-empty crop image URL in the group
func (g Group) BackgroundURL() string {
	for _, e := range g {
		if e.Image.CropImageURL != "" {
			return e.Image.CropImageURL
		}
	}
	return ""
}
