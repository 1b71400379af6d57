package deduplication

import (
	"testing"

	"newsdigest/types"

	"github.com/stretchr/testify/assert"
)

func TestLinkSetSeenAndAdd(t *testing.T) {
	set := NewLinkSet([]string{"https://a.example/1", "https://a.example/2"})

	assert.True(t, set.Seen("https://a.example/1"))
	assert.False(t, set.Seen("https://a.example/3"))

	assert.True(t, set.Add("https://a.example/3"))
	assert.False(t, set.Add("https://a.example/3"))
	assert.True(t, set.Seen("https://a.example/3"))
	assert.Equal(t, 3, set.Len())
}

func TestLinkSetExactMatch(t *testing.T) {
	set := NewLinkSet([]string{"https://a.example/post"})

	for _, variant := range []string{
		"https://a.example/post/",
		"http://a.example/post",
		"https://A.example/post",
		"https://a.example/post?utm_source=rss",
	} {
		assert.False(t, set.Seen(variant), variant)
	}
}

func TestFromArchive(t *testing.T) {
	archive := types.Archive{
		{Title: "one", Link: "https://b.example/1"},
		{Title: "dup", Link: "https://b.example/1"},
		{Title: "two", Link: "https://b.example/2"},
	}

	set := FromArchive(archive)
	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Seen("https://b.example/2"))

	assert.Equal(t, 0, FromArchive(nil).Len())
}
