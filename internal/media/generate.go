package media

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Mode identifies which strategy produced a batch of episode URLs.
type Mode string

const (
	// ModePattern substitutes the SxxEyy token found by ParseURL.
	ModePattern Mode = "pattern"
	// ModeFallback rewrites the first generic episode-like token in the URL.
	ModeFallback Mode = "fallback"
	// ModeTemplate expands {season}/{episode} placeholders.
	ModeTemplate Mode = "template"
)

// fallbackPatterns are tried in order against the whole URL; only the first
// pattern with any match is used.
var fallbackPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)episode[-_]?\d+`),
	regexp.MustCompile(`(?i)ep[-_]?\d+`),
	regexp.MustCompile(`(?i)e\d+`),
	regexp.MustCompile(`\d+`),
}

// Template placeholders recognized by GenerateSeasonRange.
const (
	TokenSeason       = "{season}"
	TokenEpisode      = "{episode}"
	TokenSeasonPadded = "{season:02d}"
	TokenEpisodePad   = "{episode:02d}"
)

// Episode is one playable entry in a series.
type Episode struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	URL    string `json:"url"`
}

// Batch is the result of generating episodes from a single sample URL.
type Batch struct {
	Mode     Mode
	Episodes []Episode
	// Approximate is set when at least one URL could not be derived from
	// the sample: the SxxEyy token was missing (pattern mode) or no
	// episode-like token existed and a query parameter was appended
	// (fallback mode).
	Approximate bool
}

// URLs returns the generated URLs in episode order.
func (b Batch) URLs() []string {
	urls := make([]string, len(b.Episodes))
	for i, ep := range b.Episodes {
		urls[i] = ep.URL
	}
	return urls
}

// SeasonBatch holds the episodes generated for one season of a range.
type SeasonBatch struct {
	Season   int
	Episodes []Episode
}

// EpisodeTitle is the default title for episode n.
func EpisodeTitle(n int) string {
	return fmt.Sprintf("Episode %d", n)
}

// GenerateEpisodes builds total episode URLs from a sample URL. Recognized
// filenames use pattern substitution; anything else uses the fallback rules.
func GenerateEpisodes(baseURL string, total int) (Batch, error) {
	if info, ok := ParseURL(baseURL).Get(); ok {
		return GenerateFromPattern(baseURL, info, total)
	}
	return GenerateFallback(baseURL, total)
}

// GenerateFromPattern replaces the season+episode token of info inside
// baseURL with the same season and each episode number in 1..total.
func GenerateFromPattern(baseURL string, info ParsedVideoInfo, total int) (Batch, error) {
	if err := validateTotal(total); err != nil {
		return Batch{}, err
	}

	batch := Batch{Mode: ModePattern, Episodes: make([]Episode, 0, total)}
	var loc []int
	if info.Token() != "" {
		token := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(info.Token()))
		loc = token.FindStringIndex(baseURL)
	}
	if loc == nil {
		batch.Approximate = true
	}

	for i := 1; i <= total; i++ {
		url := baseURL
		if loc != nil {
			url = baseURL[:loc[0]] + info.Season + fmt.Sprintf("E%02d", i) + baseURL[loc[1]:]
		}
		batch.Episodes = append(batch.Episodes, Episode{Number: i, Title: EpisodeTitle(i), URL: url})
	}
	return batch, nil
}

// GenerateFallback rewrites the first episode-like token of baseURL to
// "episode{i}". When the URL has no digits at all, an episode query
// parameter is appended instead.
func GenerateFallback(baseURL string, total int) (Batch, error) {
	if err := validateTotal(total); err != nil {
		return Batch{}, err
	}

	var (
		loc   []int
		batch = Batch{Mode: ModeFallback, Episodes: make([]Episode, 0, total)}
	)
	for _, pattern := range fallbackPatterns {
		if loc = pattern.FindStringIndex(baseURL); loc != nil {
			break
		}
	}
	batch.Approximate = loc == nil

	separator := "?"
	if strings.Contains(baseURL, "?") {
		separator = "&"
	}

	for i := 1; i <= total; i++ {
		var url string
		if loc != nil {
			url = baseURL[:loc[0]] + "episode" + strconv.Itoa(i) + baseURL[loc[1]:]
		} else {
			url = baseURL + separator + "episode=" + strconv.Itoa(i)
		}
		batch.Episodes = append(batch.Episodes, Episode{Number: i, Title: EpisodeTitle(i), URL: url})
	}
	return batch, nil
}

// GenerateSeasonRange expands template once per season and episode in req.
// Each season is numbered independently from 1. The request is validated
// before anything is generated.
func GenerateSeasonRange(template string, req RangeRequest) ([]SeasonBatch, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	seasons := make([]SeasonBatch, 0, req.EndSeason-req.StartSeason+1)
	for s := req.StartSeason; s <= req.EndSeason; s++ {
		batch := SeasonBatch{Season: s, Episodes: make([]Episode, 0, req.EpisodesPerSeason)}
		for e := 1; e <= req.EpisodesPerSeason; e++ {
			batch.Episodes = append(batch.Episodes, Episode{
				Number: e,
				Title:  EpisodeTitle(e),
				URL:    ExpandTemplate(template, s, e),
			})
		}
		seasons = append(seasons, batch)
	}
	return seasons, nil
}

// ExpandTemplate substitutes every placeholder occurrence in a single pass.
func ExpandTemplate(template string, season, episode int) string {
	return strings.NewReplacer(
		TokenSeason, strconv.Itoa(season),
		TokenEpisode, strconv.Itoa(episode),
		TokenSeasonPadded, fmt.Sprintf("%02d", season),
		TokenEpisodePad, fmt.Sprintf("%02d", episode),
	).Replace(template)
}
