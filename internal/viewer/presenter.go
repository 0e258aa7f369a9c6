package viewer

import (
	"context"
	"errors"
	"image"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arcanaland/decktech/internal/ansiart"
	"github.com/arcanaland/decktech/internal/card"
	"github.com/arcanaland/decktech/internal/logging"
)

const (
	backgroundHeight = 8
	backgroundDim    = 0.45
	minArtWidth      = 6
)

var errNoURL = errors.New("no image URL")

// ImageSource downloads card artwork
type ImageSource interface {
	FetchImage(ctx context.Context, url string) (image.Image, error)
}

// PresenterOptions sizes the rendered cards and the fade
type PresenterOptions struct {
	FadeDelay time.Duration
	ArtWidth  int
	ArtHeight int
}

// Presenter paints the current group onto the page with a timed cross-fade
type Presenter struct {
	page   *Page
	images ImageSource
	opts   PresenterOptions
	log    *logging.Logger

	width int
	seq   int
}

// paintMsg carries a painted group back to the event loop once the fade-out
// delay has elapsed.
type paintMsg struct {
	seq           int
	cards         []string
	backgroundURL string
	background    string
}

// NewPresenter creates a presenter drawing on page
func NewPresenter(page *Page, images ImageSource, opts PresenterOptions, log *logging.Logger) *Presenter {
	if log == nil {
		log = logging.Nop()
	}
	return &Presenter{page: page, images: images, opts: opts, log: log}
}

// SetWidth records the terminal width used for sizing cards and background
func (p *Presenter) SetWidth(width int) {
	p.width = width
}

// Render starts the fade-out immediately and returns a command that paints
// groups[index] after the fade delay. Apply the resulting message with Apply.
func (p *Presenter) Render(ctx context.Context, groups []card.Group, index int) tea.Cmd {
	p.page.Container.Opacity = 0
	p.seq++

	var group card.Group
	if len(groups) > 0 && index >= 0 && index < len(groups) {
		group = groups[index]
	}

	job := paintJob{
		seq:         p.seq,
		group:       group,
		images:      p.images,
		log:         p.log,
		bannerWidth: p.width,
	}
	job.artWidth, job.artHeight = fitArt(p.width, p.opts.ArtWidth, p.opts.ArtHeight)

	return tea.Tick(p.opts.FadeDelay, func(time.Time) tea.Msg {
		return job.paint(ctx)
	})
}

// Apply replaces the container contents with a painted group and fades back in.
// Messages from superseded renders are dropped; the return value reports
// whether msg was applied.
func (p *Presenter) Apply(msg paintMsg) bool {
	if msg.seq != p.seq {
		return false
	}

	p.page.Container.Cards = append([]string(nil), msg.cards...)
	if msg.backgroundURL != "" {
		p.page.Background = Background{URL: msg.backgroundURL, Art: msg.background}
	}
	p.page.Container.Opacity = 1

	return true
}

// paintJob is everything the paint step needs, copied so it can run off the
// event loop without touching the presenter.
type paintJob struct {
	seq         int
	group       card.Group
	images      ImageSource
	log         *logging.Logger
	artWidth    int
	artHeight   int
	bannerWidth int
}

func (j paintJob) paint(ctx context.Context) paintMsg {
	msg := paintMsg{seq: j.seq}

	for _, entry := range j.group {
		msg.cards = append(msg.cards, j.renderCard(ctx, entry))
	}

	if url := j.group.BackgroundURL(); url != "" {
		msg.backgroundURL = url
		msg.background = j.renderBackground(ctx, url)
	}

	return msg
}

// renderCard draws the full image in a frame, with a count label when count > 0.
// A missing image still produces a frame so the layout does not shift.
func (j paintJob) renderCard(ctx context.Context, entry card.Entry) string {
	var body string
	img, err := j.fetch(ctx, entry.Image.FullImageURL)
	if err != nil {
		body = brokenImageStyle.
			Width(j.artWidth).
			Height(j.artHeight).
			Render("no image")
	} else {
		body = ansiart.Render(img, j.artWidth, j.artHeight)
	}

	if entry.Count > 0 {
		label := countStyle.Render(strconv.Itoa(entry.Count))
		body = lipgloss.JoinVertical(lipgloss.Center, body, label)
	}

	return cardStyle.Render(body)
}

func (j paintJob) renderBackground(ctx context.Context, url string) string {
	if j.bannerWidth <= 0 {
		return ""
	}
	img, err := j.fetch(ctx, url)
	if err != nil {
		return ""
	}
	return ansiart.Render(ansiart.Dim(img, backgroundDim), j.bannerWidth, backgroundHeight)
}

func (j paintJob) fetch(ctx context.Context, url string) (image.Image, error) {
	if url == "" || j.images == nil {
		return nil, errNoURL
	}
	img, err := j.images.FetchImage(ctx, url)
	if err != nil {
		j.log.Error("Error loading image", "url", url, "error", err)
		return nil, err
	}
	return img, nil
}

// fitArt shrinks the configured art size so that a full group fits in width
func fitArt(width, artWidth, artHeight int) (int, int) {
	if width <= 0 {
		return artWidth, artHeight
	}

	// Border and margin take 4 cells per card
	maxWidth := width/card.GroupSize - 4
	if maxWidth >= artWidth {
		return artWidth, artHeight
	}
	if maxWidth < minArtWidth {
		maxWidth = minArtWidth
	}

	height := artHeight * maxWidth / artWidth
	if height < 1 {
		height = 1
	}
	return maxWidth, height
}
