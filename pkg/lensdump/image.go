package lensdump

import (
	"context"
	"iter"
)

// ImageExtractor emits a single image
type ImageExtractor struct {
	base
	key string
}

// NewImageExtractor creates an extractor for the image with the given key
func NewImageExtractor(c *Client, key string) *ImageExtractor {
	return &ImageExtractor{
		base: newBase(c, ImageURL(c.Root(), key), SubcategoryImage, Formats{
			Directory: []string{"{category}"},
			Filename:  "{category}_{id}{title:?_//}.{extension}",
			Archive:   "{id}",
		}),
		key: key,
	}
}

func (e *ImageExtractor) Key() string { return e.key }

func (e *ImageExtractor) Items(ctx context.Context) iter.Seq2[Message, error] {
	return func(yield func(Message, error) bool) {
		page, err := e.client.GetPage(ctx, e.url)
		if err != nil {
			yield(Message{}, err)
			return
		}

		img := ParseImagePage(e.key, page)
		data := e.common().Merge(img.Metadata())
		if !e.emit(yield, directoryMessage(data.Clone())) {
			return
		}
		e.emit(yield, urlMessage(img.URL, data))
	}
}
