// Package preview memoizes filename parsing and episode generation for
// interactive screens that re-run them on every keystroke.
package preview

import (
	"fmt"
	"time"

	"github.com/Digital-Shane/reelshelf/internal/media"
	"github.com/patrickmn/go-cache"
	"github.com/samber/mo"
)

// Previewer caches parse and generation results by input.
type Previewer struct {
	cache *cache.Cache
}

// New returns a Previewer whose entries expire after ttl. A non-positive
// ttl keeps entries until they are evicted by Flush.
func New(ttl time.Duration) *Previewer {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &Previewer{cache: cache.New(ttl, 2*ttl)}
}

// Parse returns media.ParseURL(url), computing it at most once per ttl.
func (p *Previewer) Parse(url string) mo.Option[media.ParsedVideoInfo] {
	key := "parse:" + url
	if v, ok := p.cache.Get(key); ok {
		return v.(mo.Option[media.ParsedVideoInfo])
	}
	result := media.ParseURL(url)
	p.cache.SetDefault(key, result)
	return result
}

type episodesResult struct {
	batch media.Batch
	err   error
}

// Episodes returns the first limit entries of media.GenerateEpisodes(url,
// total) along with the batch mode and approximation flag. Only those
// entries are generated; a non-positive limit generates all of them.
func (p *Previewer) Episodes(url string, total, limit int) (media.Batch, error) {
	count := total
	if limit > 0 && limit < total {
		count = limit
	}
	key := fmt.Sprintf("episodes:%d:%s", count, url)

	var res episodesResult
	if v, ok := p.cache.Get(key); ok {
		res = v.(episodesResult)
	} else {
		res.batch, res.err = media.GenerateEpisodes(url, count)
		p.cache.SetDefault(key, res)
	}
	if res.err != nil {
		return media.Batch{}, res.err
	}
	return res.batch, nil
}

// Len reports the number of cached results.
func (p *Previewer) Len() int {
	return p.cache.ItemCount()
}

// Flush drops every cached result.
func (p *Previewer) Flush() {
	p.cache.Flush()
}
