package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVideo(t *testing.T) {
	cases := []struct {
		in       string
		platform Platform
		id       string
		embed    string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", PlatformYouTube, "dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"https://youtu.be/dQw4w9WgXcQ?t=10", PlatformYouTube, "dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", PlatformYouTube, "dQw4w9WgXcQ", "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"https://youtube.com/shorts/abcdefghijk", PlatformYouTube, "abcdefghijk", "https://www.youtube.com/embed/abcdefghijk"},
		{"https://vimeo.com/76979871", PlatformVimeo, "76979871", "https://player.vimeo.com/video/76979871"},
		{" https://player.vimeo.com/video/76979871 ", PlatformVimeo, "76979871", "https://player.vimeo.com/video/76979871"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			v, err := ParseVideo(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.platform, v.Platform)
			assert.Equal(t, tc.id, v.ID)
			assert.Equal(t, tc.embed, v.EmbedURL)
		})
	}
}

func TestParseVideoRejectsUnknownHosts(t *testing.T) {
	for _, in := range []string{"", "https://example.com/video.mp4", "https://youtube.com/watch?v=short"} {
		_, err := ParseVideo(in)
		assert.ErrorIs(t, err, ErrUnsupportedVideo, in)
		assert.Empty(t, EmbedURL(in))
	}
}
