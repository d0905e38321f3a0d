package lensdump

import (
	"regexp"
	"strings"
)

const (
	// Root is the public site root
	Root = "https://lensdump.com"

	// Category is the category every lensdump record carries
	Category = "lensdump"
)

// Subcategories of the lensdump extractors
const (
	SubcategoryAlbum  = "album"
	SubcategoryAlbums = "albums"
	SubcategoryImage  = "image"
)

// Page markers
const (
	markerOldest   = ` id="list-most-oldest-link"`
	markerNext     = ` data-pagination="next"`
	markerItem     = ` class="list-item `
	markerObject   = `data-object="`
	markerShortURL = `data-url-short="`
	markerOGTitle  = `property="og:title" content="`
	markerOGImage  = `property="og:image" content="`
	markerWidth    = `property="image:width" content="`
	markerHeight   = `property="image:height" content="`
	markerDate     = `<span title="`

	// DateFormat is the strftime layout of the upload date on image pages
	DateFormat = "%Y-%m-%d %H:%M:%S"
)

const basePattern = `^(?:https?://)?lensdump\.com`

var (
	baseRe = regexp.MustCompile(basePattern)

	albumsRe    = regexp.MustCompile(basePattern + `/(\w+)/albums`)
	imageRe     = regexp.MustCompile(basePattern + `/i/(\w+)`)
	albumRe     = regexp.MustCompile(basePattern + `/a/(\w+)`)
	userAlbumRe = regexp.MustCompile(basePattern + `/(\w+)(/)?`)
)

// ImageURL returns the page URL of the image with the given key
func ImageURL(root, key string) string {
	return strings.TrimRight(root, "/") + "/i/" + key
}

// rebase moves a matched lensdump URL onto root, keeping path and query
func rebase(root, rawURL string) string {
	loc := baseRe.FindStringIndex(rawURL)
	if loc == nil {
		return rawURL
	}
	return strings.TrimRight(root, "/") + rawURL[loc[1]:]
}
