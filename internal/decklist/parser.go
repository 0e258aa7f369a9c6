package decklist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/arcanaland/decktech/internal/card"
	"github.com/arcanaland/decktech/internal/logging"
)

// ErrRead wraps failures to read the decklist itself
var ErrRead = errors.New("failed to read file")

var lineRe = regexp.MustCompile(`^(\d+) (.+)$`)

// Fetcher resolves a card name to its images. Implementations must not fail;
// a missing card is an empty ImageRef.
type Fetcher interface {
	FetchCardInfo(ctx context.Context, name string) card.ImageRef
}

// Line is a parsed decklist line
type Line struct {
	Count int
	Name  string // lower-cased lookup key
}

// Parser turns decklist text into display groups
type Parser struct {
	fetcher Fetcher
	log     *logging.Logger
}

// NewParser creates a parser resolving names through fetcher
func NewParser(fetcher Fetcher, log *logging.Logger) *Parser {
	if log == nil {
		log = logging.Nop()
	}
	return &Parser{fetcher: fetcher, log: log}
}

// NormalizeLineEndings converts CRLF and bare CR to LF
func NormalizeLineEndings(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// SplitLines normalizes text and splits it into lines
func SplitLines(text string) []string {
	return strings.Split(NormalizeLineEndings(text), "\n")
}

// ParseLine parses "<count> <name>". ok is false when the line does not match.
func ParseLine(line string) (Line, bool) {
	m := lineRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return Line{}, false
	}

	count, err := strconv.Atoi(m[1])
	if err != nil {
		// Digit run too large for an int
		return Line{}, false
	}

	return Line{Count: count, Name: strings.ToLower(m[2])}, true
}

// ProcessFile reads the decklist at path and resolves it into groups
func (p *Parser) ProcessFile(ctx context.Context, path string) ([]card.Group, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	defer file.Close()

	return p.Process(ctx, file)
}

// Process reads all of r and resolves it into groups
func (p *Parser) Process(ctx context.Context, r io.Reader) ([]card.Group, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}

	lines := SplitLines(string(data))
	p.log.Debug("Processing lines", "lines", len(lines))

	return p.ParseLines(ctx, lines)
}

// ParseLines resolves lines into groups. Lookups run one at a time in line order.
// A cancelled ctx stops the run and returns ctx.Err().
func (p *Parser) ParseLines(ctx context.Context, lines []string) ([]card.Group, error) {
	var b groupBuilder
	queue := newLookupQueue(p.fetcher)

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			b.flush()
			continue
		}

		parsed, ok := ParseLine(line)
		if !ok {
			p.log.Debug("Skipping line", "line", line)
			continue
		}
		p.log.Debug("Parsed line", "count", parsed.Count, "name", parsed.Name)

		image, err := queue.resolve(ctx, parsed.Name)
		if err != nil {
			return nil, err
		}
		b.add(card.Entry{Image: image, Count: parsed.Count})
	}

	b.flush()
	return b.groups, nil
}

// groupBuilder packs entries into groups of at most card.GroupSize
type groupBuilder struct {
	groups  []card.Group
	current card.Group
}

func (b *groupBuilder) add(e card.Entry) {
	b.current = append(b.current, e)
	if len(b.current) >= card.GroupSize {
		b.flush()
	}
}

// flush closes the running group; an empty group is never emitted
func (b *groupBuilder) flush() {
	if len(b.current) == 0 {
		return
	}
	b.groups = append(b.groups, b.current)
	b.current = nil
}
