package libav

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDictionaryItems(t *testing.T) {
	items, err := ParseDictionaryItems([]string{"qscale=2", "threads=", "g=a=b"})
	require.NoError(t, err)
	require.Equal(t, DictionaryItems{
		{Key: "qscale", Value: "2"},
		{Key: "threads", Value: ""},
		{Key: "g", Value: "a=b"},
	}, items)

	_, err = ParseDictionaryItems([]string{"noequals"})
	require.Error(t, err)
	_, err = ParseDictionaryItems([]string{"=value"})
	require.Error(t, err)
}
