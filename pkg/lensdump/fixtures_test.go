package lensdump

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"lensdl/pkg/config"
	errs "lensdl/pkg/errors"
	"lensdl/pkg/logger"
)

const imagePage = `<!DOCTYPE html>
<html><head>
<meta property="og:type" content="article">
<meta property="og:title" content="MYOBI clovis bookcaseset">
<meta property="og:image" content="https://i2.lensdump.com/i/tyoAyM.webp">
<meta property="image:width" content="620">
<meta property="image:height" content="400">
</head><body>
<div class="header-content-right">Uploaded <span title="2022-08-01 08:24:28">2 years ago</span></div>
</body></html>`

// itemNode renders one list item the way listing pages do
func itemNode(obj map[string]any) string {
	b, err := json.Marshal(obj)
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf(`<div class="list-item c8 gutter-margin-right-bottom" data-type="image" data-object="%s">`+
		`<div class="list-item-image fixed-size"><img src="x"></div></div>`, url.PathEscape(string(b)))
}

func albumItem(name, short string) string {
	return fmt.Sprintf(`<div class="list-item c8" data-type="album" data-url-short="%s" data-name="%s">`+
		`<div class="list-item-image"></div></div>`, short, name)
}

func image(n int) map[string]any {
	return map[string]any{
		"name":      fmt.Sprintf("img%02d", n),
		"url":       fmt.Sprintf("https://i.lensdump.com/i/img%02d.png", n),
		"title":     fmt.Sprintf("Image %d", n),
		"filename":  fmt.Sprintf("img%02d.png", n),
		"extension": "png",
		"width":     "800",
		"height":    600,
	}
}

type listing struct {
	title  string
	oldest string
	next   string
	items  []string
}

func (l listing) render() string {
	var b strings.Builder
	b.WriteString("<html><head>")
	if l.title != "" {
		fmt.Fprintf(&b, `<meta property="og:title" content="%s">`, l.title)
	}
	b.WriteString("</head><body>")
	if l.oldest != "" {
		fmt.Fprintf(&b, `<a class="pagination-link" id="list-most-oldest-link" href="%s">Oldest</a>`, l.oldest)
	}
	for _, item := range l.items {
		b.WriteString(item)
	}
	if l.next != "" {
		fmt.Fprintf(&b, `<li class="pagination-next"><a data-pagination="next" href="%s">Next</a></li>`, l.next)
	}
	b.WriteString("</body></html>")
	return b.String()
}

// site serves fixed pages keyed by request URI and counts hits
type site struct {
	mu     sync.Mutex
	pages  map[string]string
	status map[string]int
	hits   map[string]int
	agent  string
}

func newSite(t *testing.T, pages map[string]string) (*site, *httptest.Server) {
	s := &site{pages: pages, status: map[string]int{}, hits: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		uri := r.URL.RequestURI()
		s.hits[uri]++
		s.agent = r.Header.Get("User-Agent")
		status, page := s.status[uri], s.pages[uri]
		s.mu.Unlock()

		if status != 0 {
			w.WriteHeader(status)
			return
		}
		if page == "" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, page)
	}))
	t.Cleanup(srv.Close)
	return s, srv
}

func (s *site) userAgent() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agent
}

func (s *site) hitCount(uri string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[uri]
}

func newTestClient(srv *httptest.Server, opts ...Option) *Client {
	cfg := config.DefaultConfig().Lensdump
	cfg.Root = srv.URL
	opts = append([]Option{WithHTTPClient(srv.Client()), WithLogger(logger.NewNopLogger())}, opts...)
	return NewClient(cfg, opts...)
}

// mapFetcher serves pages from memory
type mapFetcher struct {
	pages   map[string]string
	fetched []string
}

func (f *mapFetcher) GetPage(_ context.Context, url string) (string, error) {
	f.fetched = append(f.fetched, url)
	page, ok := f.pages[url]
	if !ok {
		return "", errs.FromStatus(http.StatusNotFound, url)
	}
	return page, nil
}
