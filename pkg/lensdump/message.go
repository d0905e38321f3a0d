package lensdump

import "fmt"

// Kind identifies what a Message asks the job runner to do
type Kind int

const (
	// KindDirectory sets the target directory for the following files
	KindDirectory Kind = iota + 1
	// KindURL is a file to download
	KindURL
	// KindQueue is a page to hand to another extractor
	KindQueue
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindURL:
		return "url"
	case KindQueue:
		return "queue"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Metadata is the keyword map attached to a message. Values are strings,
// ints, time.Time or nil.
type Metadata map[string]any

// Clone returns a shallow copy of m
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Merge copies every key of other into m, overwriting existing keys
func (m Metadata) Merge(other Metadata) Metadata {
	for k, v := range other {
		m[k] = v
	}
	return m
}

// Message is one instruction emitted by an extractor
type Message struct {
	Kind Kind `json:"type"`
	// URL is the file to download (KindURL) or the page to queue (KindQueue)
	URL string `json:"url,omitempty"`
	// Extractor names the subcategory that must handle a queued URL
	Extractor string   `json:"extractor,omitempty"`
	Data      Metadata `json:"data,omitempty"`
}

func directoryMessage(data Metadata) Message {
	return Message{Kind: KindDirectory, Data: data}
}

func urlMessage(url string, data Metadata) Message {
	return Message{Kind: KindURL, URL: url, Data: data}
}

func queueMessage(url, extractor string) Message {
	return Message{Kind: KindQueue, URL: url, Extractor: extractor}
}
