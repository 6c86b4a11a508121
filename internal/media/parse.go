package media

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/mo"
)

// Filename parsing utilities.
//
// The parser only understands the dotted `.mkv` release naming family
// (Name.S01E02.720p.<tags>.mkv). Anything else is reported as unrecognized
// rather than guessed at, so callers can fall back to other strategies.
var (
	// filenamePatterns are tried in order and the first match wins. Every
	// pattern captures name, season, episode and quality in groups 1-4; any
	// further groups form the trailing metadata blob.
	filenamePatterns = []*regexp.Regexp{
		// Uploader-Name.S01E02.1080p.WEB.x265.Hindi.Eng.mkv
		regexp.MustCompile(`(?i)^.*?-(.+?)\.S(\d+)E(\d+)\.(\d+p)\.(.+?)\.x(\d+)\.(.+?)\.mkv$`),
		// Name.S01E02.720p.WEB.Hindi.mkv
		regexp.MustCompile(`(?i)^(.+?)\.S(\d+)E(\d+)\.(\d+p)\.(.+?)\.mkv$`),
		// Name.S01E02.720p.mkv
		regexp.MustCompile(`(?i)^(.+?)\.S(\d+)E(\d+)\.(\d+p)\.mkv$`),
	}

	// whitespaceRe collapses runs of whitespace in normalized series names.
	whitespaceRe = regexp.MustCompile(`\s+`)

	// languageTags map blob literals to display names, in output order.
	languageTags = []tag{
		{literal: "hindi", label: "Hindi"},
		{literal: "eng", label: "English"},
	}

	// formatTags map blob literals to encoding labels, in output order.
	formatTags = []tag{
		{literal: "x265", label: "x265"},
		{literal: "x264", label: "x264"},
		{literal: "10bit", label: "10bit"},
		{literal: "esub", label: "Subtitles"},
	}
)

type tag struct {
	literal string
	label   string
}

// ParsedVideoInfo is the metadata extracted from a release filename.
type ParsedVideoInfo struct {
	SeriesName string   `json:"seriesName"`
	Season     string   `json:"season"`
	Episode    string   `json:"episode"`
	Quality    string   `json:"quality"`
	Languages  []string `json:"languages"`
	Format     string   `json:"format"`
}

// Token returns the combined season and episode designator, e.g. "S01E03".
func (p ParsedVideoInfo) Token() string {
	return p.Season + p.Episode
}

// Description renders the summary stored on catalog entries:
// "720p • Hindi, English • x265, Subtitles".
func (p ParsedVideoInfo) Description() string {
	return fmt.Sprintf("%s • %s • %s", p.Quality, strings.Join(p.Languages, ", "), p.Format)
}

// ParseURL extracts series metadata from the trailing filename of url.
// It returns mo.None when the filename does not follow a recognized layout.
func ParseURL(url string) (result mo.Option[ParsedVideoInfo]) {
	defer func() {
		if r := recover(); r != nil {
			result = mo.None[ParsedVideoInfo]()
		}
	}()

	filename := FilenameFromURL(url)
	for _, pattern := range filenamePatterns {
		m := pattern.FindStringSubmatch(filename)
		if m == nil {
			continue
		}
		return mo.Some(buildInfo(m[1], m[2], m[3], m[4], m[5:]))
	}
	return mo.None[ParsedVideoInfo]()
}

// FilenameFromURL returns the segment after the last "/" in url.
func FilenameFromURL(url string) string {
	if idx := strings.LastIndex(url, "/"); idx != -1 {
		return url[idx+1:]
	}
	return url
}

func buildInfo(name, season, episode, quality string, rest []string) ParsedVideoInfo {
	blob := strings.ToLower(strings.Join(rest, "."))

	return ParsedVideoInfo{
		SeriesName: CleanSeriesName(name),
		Season:     "S" + padNumber(season),
		Episode:    "E" + padNumber(episode),
		Quality:    quality,
		Languages:  detectTags(blob, languageTags),
		Format:     strings.Join(detectTags(blob, formatTags), ", "),
	}
}

// CleanSeriesName turns a dotted release name into a readable title.
func CleanSeriesName(name string) string {
	name = strings.ReplaceAll(name, ".", " ")
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	name = whitespaceRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// padNumber left pads a captured digit run to two digits. Longer runs are
// kept exactly as captured.
func padNumber(digits string) string {
	if len(digits) < 2 {
		return strings.Repeat("0", 2-len(digits)) + digits
	}
	return digits
}

func detectTags(blob string, tags []tag) []string {
	found := []string{}
	for _, t := range tags {
		if strings.Contains(blob, t.literal) {
			found = append(found, t.label)
		}
	}
	return found
}
