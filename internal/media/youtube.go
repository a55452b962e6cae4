// Package media recognizes video links that can be shown as embedded players.
package media

import (
	"regexp"
	"strings"
)

// EmbedBaseURL is the prefix of an embeddable YouTube player URL.
const EmbedBaseURL = "https://www.youtube.com/embed/"

// youtubePattern matches watch, short, embed, /v/ and /e/ link shapes and
// captures the 11 character video id.
var youtubePattern = regexp.MustCompile(
	`^(?:https?://)?(?:www\.)?(?:youtube\.com/(?:[^/\n\s]+/\S+/|(?:v|e(?:mbed)?)/|\S*?[?&]v=)|youtu\.be/)([a-zA-Z0-9_-]{11})`,
)

// YouTubeID extracts the video id from link. ok is false when link is not a
// recognized YouTube URL.
func YouTubeID(link string) (id string, ok bool) {
	m := youtubePattern.FindStringSubmatch(strings.TrimSpace(link))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// EmbedURL returns the player URL for link, or "" when link is not recognized.
func EmbedURL(link string) string {
	id, ok := YouTubeID(link)
	if !ok {
		return ""
	}
	return EmbedBaseURL + id
}
