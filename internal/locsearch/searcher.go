// Package locsearch implements search-as-you-type over a geocoder: keystrokes
// are debounced, superseded requests are aborted and late answers dropped.
package locsearch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/alexanderramin/tourdesk/internal/geocode"
)

const (
	DefaultDebounce  = 300 * time.Millisecond
	DefaultMinLength = 2
)

// Result is the answer to one query. Query is the text that produced it, so
// a consumer can discard anything that no longer matches its input.
type Result struct {
	Query     string
	Locations []geocode.Location
	Err       error
}

type Option func(*Searcher)

func WithDebounce(d time.Duration) Option {
	return func(s *Searcher) { s.debounce = d }
}

func WithMinLength(n int) Option {
	return func(s *Searcher) { s.minLen = n }
}

// Searcher owns at most one pending timer and one in-flight request.
type Searcher struct {
	geo      geocode.Geocoder
	onResult func(Result)
	debounce time.Duration
	minLen   int

	mu       sync.Mutex
	gen      uint64
	timer    *time.Timer
	inflight context.CancelFunc
	closed   bool
	wg       sync.WaitGroup
}

// NewSearcher calls onResult for every query that is still current when its
// answer arrives. Geocoder answers are delivered from a background goroutine;
// the empty result for a query below the minimum length is delivered on the
// goroutine that called Query, before Query returns.
func NewSearcher(geo geocode.Geocoder, onResult func(Result), opts ...Option) *Searcher {
	s := &Searcher{
		geo:      geo,
		onResult: onResult,
		debounce: DefaultDebounce,
		minLen:   DefaultMinLength,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Query records a keystroke. Any pending timer is reset and any in-flight
// request aborted. Text shorter than the minimum length clears the results
// without contacting the geocoder.
func (s *Searcher) Query(text string) {
	text = strings.TrimSpace(text)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.gen++
	gen := s.gen
	s.stopLocked()

	if utf8.RuneCountInString(text) < s.minLen {
		s.mu.Unlock()
		s.onResult(Result{Query: text})
		return
	}

	s.wg.Add(1)
	s.timer = time.AfterFunc(s.debounce, func() { s.fire(gen, text) })
	s.mu.Unlock()
}

// stopLocked cancels the pending timer and the in-flight request.
func (s *Searcher) stopLocked() {
	if s.timer != nil {
		if s.timer.Stop() {
			s.wg.Done()
		}
		s.timer = nil
	}
	if s.inflight != nil {
		s.inflight()
		s.inflight = nil
	}
}

func (s *Searcher) fire(gen uint64, text string) {
	defer s.wg.Done()

	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.inflight = cancel
	s.timer = nil
	s.mu.Unlock()
	defer cancel()

	locs, err := s.geo.Search(ctx, text)

	s.mu.Lock()
	current := !s.closed && gen == s.gen
	if current {
		s.inflight = nil
	}
	s.mu.Unlock()

	if !current || errors.Is(err, context.Canceled) {
		return
	}
	s.onResult(Result{Query: text, Locations: locs, Err: err})
}

// Close aborts pending work and waits for running callbacks to return.
// Query is a no-op afterwards.
func (s *Searcher) Close() {
	s.mu.Lock()
	s.closed = true
	s.stopLocked()
	s.mu.Unlock()
	s.wg.Wait()
}
