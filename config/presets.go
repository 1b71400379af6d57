package config

// FeedPresets maps short names to the feeds they stand for
var FeedPresets = map[string]FeedConfig{
	"techcrunch": DefaultFeeds[0],
	"verge":      DefaultFeeds[1],
	"ars":        DefaultFeeds[2],
	"mittr":      {Name: "MIT Technology Review", URL: "https://www.technologyreview.com/feed/"},
	"hn":         {Name: "Hacker News", URL: "https://hnrss.org/newest"},
}

// ResolveFeed resolves a feed identifier. A preset name returns the preset;
// anything else is taken as a feed URL.
func ResolveFeed(input string) (FeedConfig, bool) {
	feed, ok := FeedPresets[input]
	return feed, ok
}
