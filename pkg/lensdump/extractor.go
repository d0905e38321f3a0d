package lensdump

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"regexp"
	"strings"

	"lensdl/pkg/logger"
)

// ErrNoExtractor is returned when no extractor matches a URL
var ErrNoExtractor = errors.New("no extractor for url")

// Formats holds the default output templates of an extractor
type Formats struct {
	Directory []string
	Filename  string
	Archive   string
}

// Extractor turns one lensdump URL into a sequence of messages
type Extractor interface {
	Category() string
	Subcategory() string
	URL() string
	Formats() Formats
	Items(ctx context.Context) iter.Seq2[Message, error]
}

type base struct {
	client      *Client
	walker      *Walker
	url         string
	subcategory string
	formats     Formats
	logger      logger.Logger
}

func newBase(c *Client, url, subcategory string, f Formats) base {
	log := c.logger.WithFields(map[string]interface{}{
		"extractor": subcategory,
	})
	return base{
		client:      c,
		walker:      NewWalker(c, c.Root(), c.metrics, log),
		url:         url,
		subcategory: subcategory,
		formats:     f,
		logger:      log,
	}
}

func (b *base) Category() string    { return Category }
func (b *base) Subcategory() string { return b.subcategory }
func (b *base) URL() string         { return b.url }
func (b *base) Formats() Formats    { return b.formats }

func (b *base) common() Metadata {
	return Metadata{
		"category":    Category,
		"subcategory": b.subcategory,
	}
}

func (b *base) emit(yield func(Message, error) bool, msg Message) bool {
	b.client.metrics.IncMessage(b.subcategory, msg.Kind.String())
	return yield(msg, nil)
}

type pattern struct {
	subcategory string
	re          *regexp.Regexp
	build       func(c *Client, url string, groups []string) Extractor
}

// patterns are tried in order; the first match wins
var patterns = []pattern{
	{SubcategoryAlbums, albumsRe, func(c *Client, url string, g []string) Extractor {
		return NewAlbumsExtractor(c, url, g[1])
	}},
	{SubcategoryImage, imageRe, func(c *Client, _ string, g []string) Extractor {
		return NewImageExtractor(c, g[1])
	}},
	{SubcategoryAlbum, albumRe, func(c *Client, url string, g []string) Extractor {
		return NewAlbumExtractor(c, url, g[1])
	}},
	{SubcategoryAlbum, userAlbumRe, func(c *Client, url string, g []string) Extractor {
		// "/a/" and "/i/" without a key are not user galleries
		if (g[1] == "a" || g[1] == "i") && g[2] == "/" {
			return nil
		}
		return NewAlbumExtractor(c, url, g[1])
	}},
}

// Find returns the extractor for rawURL. The extractor fetches from the
// client's root, so scheme-less URLs are accepted.
func Find(c *Client, rawURL string) (Extractor, error) {
	return find(c, rawURL, "")
}

// FindNamed is Find restricted to extractors with the given subcategory
func FindNamed(c *Client, subcategory, rawURL string) (Extractor, error) {
	return find(c, rawURL, subcategory)
}

func find(c *Client, rawURL, subcategory string) (Extractor, error) {
	// links built from a custom root, such as queued album URLs
	matchURL := rawURL
	if root := c.Root(); root != Root && strings.HasPrefix(rawURL, root+"/") {
		matchURL = Root + rawURL[len(root):]
	}

	for _, p := range patterns {
		if subcategory != "" && p.subcategory != subcategory {
			continue
		}
		if g := p.re.FindStringSubmatch(matchURL); g != nil {
			if ex := p.build(c, rebase(c.Root(), matchURL), g); ex != nil {
				return ex, nil
			}
		}
	}
	if subcategory != "" {
		return nil, fmt.Errorf("%w %q (extractor %s)", ErrNoExtractor, rawURL, subcategory)
	}
	return nil, fmt.Errorf("%w %q", ErrNoExtractor, rawURL)
}
