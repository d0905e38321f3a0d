package lensdump

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "lensdl/pkg/errors"
	"lensdl/pkg/logger"
)

func collectNodes(t *testing.T, w *Walker, start Page) ([]string, error) {
	t.Helper()
	var nodes []string
	for node, err := range w.Nodes(context.Background(), start) {
		if err != nil {
			return nodes, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func TestWalkerFollowsPagesFromOldest(t *testing.T) {
	root := "https://lensdump.com"
	start := Page{
		URL:  root + "/a/1IhJr",
		Text: listing{oldest: "/a/1IhJr/?page=1", items: []string{itemNode(image(5))}}.render(),
	}
	f := &mapFetcher{pages: map[string]string{
		root + "/a/1IhJr/?page=1": listing{next: "/a/1IhJr/?page=2", items: []string{itemNode(image(1)), itemNode(image(2))}}.render(),
		root + "/a/1IhJr/?page=2": listing{next: root + "/a/1IhJr", items: []string{itemNode(image(3)), itemNode(image(4))}}.render(),
	}}

	nodes, err := collectNodes(t, NewWalker(f, root, nil, logger.NewNopLogger()), start)
	require.NoError(t, err)
	require.Len(t, nodes, 5)

	for i, node := range nodes {
		img, err := ParseItem(node)
		require.NoError(t, err)
		assert.Equal(t, image(i+1)["name"], img.ID, "oldest to newest order")
	}
	// the start page is reused, never refetched
	assert.Equal(t, []string{root + "/a/1IhJr/?page=1", root + "/a/1IhJr/?page=2"}, f.fetched)
}

func TestWalkerWithoutOldestLinkStartsAtGivenPage(t *testing.T) {
	root := "https://lensdump.com"
	start := Page{
		URL:  root + "/vstar925/albums",
		Text: listing{next: "?page=2", items: []string{albumItem("a", "/a/AAA")}}.render(),
	}
	f := &mapFetcher{pages: map[string]string{
		root + "?page=2": listing{items: []string{albumItem("b", "/a/BBB")}}.render(),
	}}

	nodes, err := collectNodes(t, NewWalker(f, root, nil, nil), start)
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
	assert.Equal(t, []string{root + "?page=2"}, f.fetched)
}

func TestWalkerEmptyNextLinkStops(t *testing.T) {
	page := strings.Replace(listing{items: []string{itemNode(image(1))}}.render(),
		"</body>", `<a data-pagination="next" href="">Next</a></body>`, 1)
	f := &mapFetcher{}

	nodes, err := collectNodes(t, NewWalker(f, Root, nil, nil), Page{URL: Root + "/a/x", Text: page})
	require.NoError(t, err)
	assert.Len(t, nodes, 1)
	assert.Empty(t, f.fetched)
}

func TestWalkerFetchErrorEndsSequence(t *testing.T) {
	start := Page{
		URL:  Root + "/a/x",
		Text: listing{next: "/a/x/?page=2", items: []string{itemNode(image(1))}}.render(),
	}

	nodes, err := collectNodes(t, NewWalker(&mapFetcher{}, Root, nil, nil), start)
	require.Error(t, err)
	assert.Equal(t, errs.ErrorTypeNotFound, errs.TypeOf(err))
	assert.Len(t, nodes, 1)
}

func TestWalkerStopsOnCycle(t *testing.T) {
	root := "https://lensdump.com"
	f := &mapFetcher{pages: map[string]string{
		root + "/a/x/?page=2": listing{next: "/a/x", items: []string{itemNode(image(2))}}.render(),
	}}
	start := Page{
		URL:  root + "/a/x",
		Text: listing{next: "/a/x/?page=2", items: []string{itemNode(image(1))}}.render(),
	}

	nodes, err := collectNodes(t, NewWalker(f, root, nil, nil), start)
	require.NoError(t, err)
	assert.Len(t, nodes, 2)
}

func TestWalkerEarlyBreakStopsFetching(t *testing.T) {
	f := &mapFetcher{pages: map[string]string{}}
	start := Page{
		URL:  Root + "/a/x",
		Text: listing{next: "/a/x/?page=2", items: []string{itemNode(image(1)), itemNode(image(2))}}.render(),
	}

	for range NewWalker(f, Root, nil, nil).Nodes(context.Background(), start) {
		break
	}
	assert.Empty(t, f.fetched)
}

func TestWalkerResolvesRelativeLinksUnderRoot(t *testing.T) {
	root := "https://lensdump.com"
	f := &mapFetcher{pages: map[string]string{}}
	start := Page{URL: "https://lensdump.com/x", Text: listing{next: "page/2?seek=abc"}.render()}

	_, _ = collectNodes(t, NewWalker(f, root, nil, nil), start)
	require.Len(t, f.fetched, 1)
	assert.True(t, strings.HasPrefix(f.fetched[0], root+"/"), f.fetched[0])
}
