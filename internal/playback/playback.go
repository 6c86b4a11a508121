// Package playback resolves what to play for a catalog entry and builds
// links that hand the stream to an external player.
package playback

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/Digital-Shane/reelshelf/internal/catalog"
	"github.com/samber/mo"
)

// ErrEpisodeNotFound is returned when a series has no episode with the
// requested number.
var ErrEpisodeNotFound = errors.New("episode not found")

var schemeRe = regexp.MustCompile(`^https?://`)

// Target is a resolved stream.
type Target struct {
	ContentID string
	Title     string
	Episode   int
	URL       string
}

// DisplayTitle is the title shown to players, including the episode for
// series.
func (t Target) DisplayTitle() string {
	if t.Episode == 0 {
		return t.Title
	}
	return fmt.Sprintf("%s - Episode %d", t.Title, t.Episode)
}

// Resolve picks the URL to play. For a series the requested episode is
// used when present, then the episode from viewing history, then the first
// episode.
func Resolve(c catalog.Content, episode mo.Option[int], history mo.Option[catalog.History]) (Target, error) {
	target := Target{ContentID: c.ID, Title: c.Title}

	if c.Type != catalog.TypeSeries {
		if c.URL == "" {
			return Target{}, fmt.Errorf("%q has no URL", c.Title)
		}
		target.URL = c.URL
		return target, nil
	}

	n := 1
	if h, ok := history.Get(); ok && h.CurrentEpisode > 0 {
		n = h.CurrentEpisode
	}
	n = episode.OrElse(n)

	ep, ok := c.Episode(n)
	if !ok {
		return Target{}, fmt.Errorf("%q episode %d: %w", c.Title, n, ErrEpisodeNotFound)
	}
	target.Episode = ep.Number
	target.URL = ep.URL
	return target, nil
}

// Next returns the episode after t, if the series has one.
func Next(c catalog.Content, t Target) mo.Option[Target] {
	if c.Type != catalog.TypeSeries {
		return mo.None[Target]()
	}
	ep, ok := c.Episode(t.Episode + 1)
	if !ok {
		return mo.None[Target]()
	}
	return mo.Some(Target{ContentID: c.ID, Title: c.Title, Episode: ep.Number, URL: ep.URL})
}

// AppIntents are links that open a stream in a specific player.
type AppIntents struct {
	VLCAndroid      string `json:"vlcAndroid"`
	MXPlayerAndroid string `json:"mxPlayerAndroid"`
	VLCIOS          string `json:"vlcIOS"`
	InfuseIOS       string `json:"infuseIOS"`
	BrowserFallback string `json:"browserFallback"`
	DownloadLink    string `json:"downloadLink"`
}

// Intents builds player links for videoURL.
func Intents(videoURL, title string) AppIntents {
	bare := schemeRe.ReplaceAllString(videoURL, "")
	encodedURL := encodeComponent(videoURL)

	return AppIntents{
		VLCAndroid:      androidIntent(bare, "org.videolan.vlc"),
		MXPlayerAndroid: androidIntent(bare, "com.mxtech.videoplayer.ad"),
		VLCIOS:          "vlc-x-callback://x-callback-url/stream?url=" + encodedURL + "&filename=" + encodeComponent(title),
		InfuseIOS:       "infuse://x-callback-url/play?url=" + encodedURL,
		BrowserFallback: videoURL,
		DownloadLink:    videoURL,
	}
}

// Links returns the intents as labeled pairs in display order.
func (a AppIntents) Links() [][2]string {
	return [][2]string{
		{"VLC (Android)", a.VLCAndroid},
		{"MX Player (Android)", a.MXPlayerAndroid},
		{"VLC (iOS)", a.VLCIOS},
		{"Infuse (iOS)", a.InfuseIOS},
		{"Browser", a.BrowserFallback},
		{"Download", a.DownloadLink},
	}
}

func androidIntent(bareURL, pkg string) string {
	return "intent://" + bareURL + "#Intent;action=android.intent.action.VIEW;type=video/*;package=" + pkg + ";end"
}

// encodeComponent escapes s for use as a single query value, encoding
// spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Platform selects player advice.
type Platform string

const (
	PlatformDesktop Platform = "desktop"
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
)

// Recommendations returns player advice for a platform. Streams that are
// not MP4 get an extra hint on mobile.
func Recommendations(p Platform, videoURL string) []string {
	if p != PlatformAndroid && p != PlatformIOS {
		return nil
	}

	recs := []string{
		"Use VLC or MX Player for best compatibility",
		"Copy URL and open in dedicated video app",
	}
	switch p {
	case PlatformIOS:
		recs = append(recs, "Try Infuse or PlayerXtreme Media Player", "Enable 'Request Desktop Website' in Safari")
	case PlatformAndroid:
		recs = append(recs, "Use Chrome browser for better video support", "Try BSPlayer or KMPlayer")
	}
	if strings.HasSuffix(strings.ToLower(strings.SplitN(videoURL, "?", 2)[0]), ".mkv") {
		recs = append(recs, "MKV files may not play directly - use external app")
	}
	return append(recs, "Download video for offline viewing if streaming fails")
}
