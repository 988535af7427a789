package parser

import (
	"errors"
	"regexp"
	"strings"
)

type Platform string

const (
	PlatformYouTube Platform = "youtube"
	PlatformVimeo   Platform = "vimeo"
)

var ErrUnsupportedVideo = errors.New("unsupported video url")

// Video is a recognised hosted video.
type Video struct {
	Platform Platform
	ID       string
	EmbedURL string
}

var (
	youtubePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`),
		regexp.MustCompile(`youtube\.com/shorts/([a-zA-Z0-9_-]{11})`),
	}
	vimeoPatterns = []*regexp.Regexp{
		regexp.MustCompile(`vimeo\.com/(\d+)`),
		regexp.MustCompile(`player\.vimeo\.com/video/(\d+)`),
	}
)

// ParseVideo recognises YouTube and Vimeo links and returns their embeddable
// player url.
func ParseVideo(rawURL string) (Video, error) {
	rawURL = strings.TrimSpace(rawURL)
	for _, re := range youtubePatterns {
		if m := re.FindStringSubmatch(rawURL); m != nil {
			return Video{
				Platform: PlatformYouTube,
				ID:       m[1],
				EmbedURL: "https://www.youtube.com/embed/" + m[1],
			}, nil
		}
	}
	for _, re := range vimeoPatterns {
		if m := re.FindStringSubmatch(rawURL); m != nil {
			return Video{
				Platform: PlatformVimeo,
				ID:       m[1],
				EmbedURL: "https://player.vimeo.com/video/" + m[1],
			}, nil
		}
	}
	return Video{}, ErrUnsupportedVideo
}

// EmbedURL returns the player url for rawURL, or "" when it is not a known
// video link.
func EmbedURL(rawURL string) string {
	v, err := ParseVideo(rawURL)
	if err != nil {
		return ""
	}
	return v.EmbedURL
}
