package lensdump

import (
	"time"

	jsoniter "github.com/json-iterator/go"

	errs "lensdl/pkg/errors"
	"lensdl/pkg/text"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Album is the metadata of one album page
type Album struct {
	GalleryID string
	Title     string
}

func (a Album) Metadata() Metadata {
	return Metadata{
		"gallery_id": a.GalleryID,
		"title":      a.Title,
	}
}

// Image is one image record. Title, Width, Height and Date are nil when
// the page does not provide them.
type Image struct {
	ID        string
	URL       string
	Title     *string
	Name      string
	Filename  string
	Extension string
	Width     *int
	Height    *int
	Date      *time.Time
}

func (img Image) Metadata() Metadata {
	m := Metadata{
		"id":        img.ID,
		"url":       img.URL,
		"name":      nil,
		"title":     nil,
		"filename":  img.Filename,
		"extension": img.Extension,
		"width":     nil,
		"height":    nil,
	}
	if img.Title != nil {
		m["title"] = *img.Title
	}
	if img.Width != nil {
		m["width"] = *img.Width
	}
	if img.Height != nil {
		m["height"] = *img.Height
	}
	if img.Name != "" {
		m["name"] = img.Name
	}
	if img.Date != nil {
		m["date"] = *img.Date
	}
	return m
}

// itemObject is the JSON blob embedded in every list item
type itemObject struct {
	Name      string  `json:"name"`
	URL       string  `json:"url"`
	Title     *string `json:"title"`
	Filename  string  `json:"filename"`
	Extension string  `json:"extension"`
	Width     any     `json:"width"`
	Height    any     `json:"height"`
}

// ParseItem builds an Image from one list item node
func ParseItem(node string) (Image, error) {
	raw := text.Extr(node, markerObject, `"`)
	if raw == "" {
		return Image{}, errs.New(errs.ErrorTypeParsing, 0, "list item has no data-object")
	}

	var obj itemObject
	if err := json.UnmarshalFromString(text.Unquote(raw), &obj); err != nil {
		return Image{}, errs.Wrap(errs.ErrorTypeParsing, err, "invalid data-object")
	}

	img := Image{
		ID:        obj.Name,
		URL:       obj.URL,
		Name:      obj.Filename,
		Filename:  obj.Name,
		Extension: obj.Extension,
		Width:     text.ParseInt(obj.Width),
		Height:    text.ParseInt(obj.Height),
	}
	if obj.Title != nil {
		title := text.Unescape(*obj.Title)
		img.Title = &title
	}
	return img, nil
}

// ParseImagePage reads the record of a single image page. Markers are
// searched in page order; missing ones leave their field empty.
func ParseImagePage(key, page string) Image {
	extr := text.ExtractFrom(page)

	title := text.Unescape(extr(markerOGTitle, `"`))
	img := Image{
		ID:     key,
		Title:  &title,
		URL:    extr(markerOGImage, `"`),
		Width:  text.ParseInt(extr(markerWidth, `"`)),
		Height: text.ParseInt(extr(markerHeight, `"`)),
		Date:   text.ParseDatetime(extr(markerDate, `"`), DateFormat),
	}
	img.Filename, img.Extension = text.NameExtFromURL(img.URL)
	return img
}
