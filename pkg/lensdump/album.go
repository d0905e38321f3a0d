package lensdump

import (
	"context"
	"iter"
	"strings"

	"lensdl/pkg/text"
)

// AlbumExtractor emits every image of an album or a user gallery
type AlbumExtractor struct {
	base
	galleryID string
}

// NewAlbumExtractor creates an extractor for the album page at url
func NewAlbumExtractor(c *Client, url, galleryID string) *AlbumExtractor {
	return &AlbumExtractor{
		base: newBase(c, url, SubcategoryAlbum, Formats{
			Directory: []string{"{category}", "{gallery_id} {title}"},
			Filename:  "{category}_{gallery_id}_{num:>03}.{extension}",
			// keyed by image id so reordering an album keeps its archive entries
			Archive:   "{id}",
		}),
		galleryID: galleryID,
	}
}

func (e *AlbumExtractor) GalleryID() string { return e.galleryID }

// Metadata reads the album title from page
func (e *AlbumExtractor) Metadata(page string) Album {
	return Album{
		GalleryID: e.galleryID,
		Title:     text.Unescape(strings.TrimSpace(text.Extr(page, markerOGTitle, `"`))),
	}
}

// Images yields one record per list item across all pages of the album
func (e *AlbumExtractor) Images(ctx context.Context, page Page) iter.Seq2[Image, error] {
	return func(yield func(Image, error) bool) {
		for node, err := range e.walker.Nodes(ctx, page) {
			if err != nil {
				yield(Image{}, err)
				return
			}
			img, err := ParseItem(node)
			if err != nil {
				e.logger.WithError(err).WarnWithFields("Unparseable list item", map[string]interface{}{
					"gallery_id": e.galleryID,
				})
				yield(Image{}, err)
				return
			}
			if !yield(img, nil) {
				return
			}
		}
	}
}

// Items emits a directory message for the album followed by one url
// message per image, numbered from 1.
func (e *AlbumExtractor) Items(ctx context.Context) iter.Seq2[Message, error] {
	return func(yield func(Message, error) bool) {
		page, err := e.client.GetPage(ctx, e.url)
		if err != nil {
			yield(Message{}, err)
			return
		}

		album := e.Metadata(page)
		e.logger.InfoWithFields("Album found", map[string]interface{}{
			"gallery_id": album.GalleryID,
			"title":      album.Title,
		})

		albumData := e.common().Merge(album.Metadata())
		if !e.emit(yield, directoryMessage(albumData.Clone())) {
			return
		}

		num := 0
		for img, err := range e.Images(ctx, Page{URL: e.url, Text: page}) {
			if err != nil {
				yield(Message{}, err)
				return
			}
			num++
			data := albumData.Clone().Merge(img.Metadata())
			data["num"] = num
			if img.Extension == "" {
				data["filename"], data["extension"] = text.NameExtFromURL(img.URL)
			}
			if !e.emit(yield, urlMessage(img.URL, data)) {
				return
			}
		}
	}
}
