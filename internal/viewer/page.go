package viewer

// Page is the terminal surface the viewer draws on. The controller owns it and
// hands it to the presenter, which is the only component that mutates the
// container and background.
type Page struct {
	Container    Container
	Background   Background
	IntroVisible bool
}

// Container holds the rendered cards of the current group
type Container struct {
	Cards   []string
	Opacity float64 // 0 while fading out, 1 once painted
}

// Background is the art-crop banner drawn behind the cards
type Background struct {
	URL string
	Art string
}

// NewPage returns a page showing the intro
func NewPage() *Page {
	return &Page{
		Container:    Container{Opacity: 1},
		IntroVisible: true,
	}
}

// HideIntro hides the initial-state elements
func (p *Page) HideIntro() {
	p.IntroVisible = false
}
