package libav

import (
	"fmt"
	"strings"
)

type DictionaryItem struct {
	Key   string
	Value string
}

type DictionaryItems []DictionaryItem

// ParseDictionaryItem parses "key=value".
func ParseDictionaryItem(s string) (DictionaryItem, error) {
	k, v, ok := strings.Cut(s, "=")
	if !ok || k == "" {
		return DictionaryItem{}, fmt.Errorf("expected 'key=value', got '%s'", s)
	}
	return DictionaryItem{Key: k, Value: v}, nil
}

func ParseDictionaryItems(in []string) (DictionaryItems, error) {
	var result DictionaryItems
	for _, s := range in {
		item, err := ParseDictionaryItem(s)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, nil
}

type VideoWriterConfig struct {
	Width     int
	Height    int
	FrameRate int

	// EncoderOptions are passed to the encoder as-is.
	EncoderOptions DictionaryItems
}

// VideoInfo describes the video stream of a written file.
type VideoInfo struct {
	CodecName   string
	CodecTag    uint32
	Width       int
	Height      int
	FrameRate   float64
	PacketCount int
}
