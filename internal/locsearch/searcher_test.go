package locsearch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/tourdesk/internal/geocode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeocoder struct {
	mu      sync.Mutex
	queries []string
	delay   time.Duration
	err     error
}

func (f *fakeGeocoder) Search(ctx context.Context, q string) ([]geocode.Location, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	delay, err := f.delay, f.err
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return []geocode.Location{{Name: q, DisplayName: q + ", Somewhere"}}, nil
}

func (f *fakeGeocoder) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

type results struct {
	mu  sync.Mutex
	got []Result
}

func (r *results) add(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, res)
}

func (r *results) all() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Result(nil), r.got...)
}

func TestSearcher_BurstFiresOnce(t *testing.T) {
	geo := &fakeGeocoder{}
	var res results
	s := NewSearcher(geo, res.add, WithDebounce(20*time.Millisecond))
	defer s.Close()

	for _, q := range []string{"ba", "bal", "bali"} {
		s.Query(q)
		time.Sleep(2 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return len(res.all()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"bali"}, geo.calls())
	got := res.all()[0]
	assert.Equal(t, "bali", got.Query)
	require.Len(t, got.Locations, 1)
	assert.NoError(t, got.Err)
}

func TestSearcher_BelowMinLengthNeverQueries(t *testing.T) {
	geo := &fakeGeocoder{}
	var res results
	s := NewSearcher(geo, res.add, WithDebounce(5*time.Millisecond))
	defer s.Close()

	s.Query("b")
	s.Query("  ")
	time.Sleep(30 * time.Millisecond)

	assert.Empty(t, geo.calls())
	got := res.all()
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Empty(t, r.Locations, "short input clears results")
	}
}

func TestSearcher_ShortInputAnswersBeforeQueryReturns(t *testing.T) {
	var res results
	s := NewSearcher(&fakeGeocoder{}, res.add)
	defer s.Close()

	s.Query("b")
	got := res.all()
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Query)
	assert.Empty(t, got[0].Locations)
}

func TestSearcher_ShortInputCancelsPendingSearch(t *testing.T) {
	geo := &fakeGeocoder{}
	var res results
	s := NewSearcher(geo, res.add, WithDebounce(20*time.Millisecond))
	defer s.Close()

	s.Query("bali")
	s.Query("b")
	time.Sleep(50 * time.Millisecond)

	assert.Empty(t, geo.calls())
}

func TestSearcher_NewKeystrokeAbortsInflight(t *testing.T) {
	geo := &fakeGeocoder{delay: 100 * time.Millisecond}
	var res results
	s := NewSearcher(geo, res.add, WithDebounce(5*time.Millisecond))
	defer s.Close()

	s.Query("par")
	require.Eventually(t, func() bool { return len(geo.calls()) == 1 }, time.Second, time.Millisecond)

	s.Query("paris")
	require.Eventually(t, func() bool { return len(res.all()) == 1 }, time.Second, 5*time.Millisecond)

	time.Sleep(150 * time.Millisecond)
	got := res.all()
	require.Len(t, got, 1, "the aborted query must not deliver")
	assert.Equal(t, "paris", got[0].Query)
	assert.Equal(t, []string{"par", "paris"}, geo.calls())
}

func TestSearcher_DeliversErrors(t *testing.T) {
	geo := &fakeGeocoder{err: geocode.ErrUnavailable}
	var res results
	s := NewSearcher(geo, res.add, WithDebounce(5*time.Millisecond))
	defer s.Close()

	s.Query("lisbon")
	require.Eventually(t, func() bool { return len(res.all()) == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, errors.Is(res.all()[0].Err, geocode.ErrUnavailable))
}

func TestSearcher_CloseStopsEverything(t *testing.T) {
	geo := &fakeGeocoder{}
	var res results
	s := NewSearcher(geo, res.add, WithDebounce(20*time.Millisecond))

	s.Query("rome")
	s.Close()
	s.Query("roma")
	time.Sleep(50 * time.Millisecond)

	assert.Empty(t, geo.calls())
	assert.Empty(t, res.all())
}

func TestSearcher_MinLengthCountsRunes(t *testing.T) {
	geo := &fakeGeocoder{}
	var res results
	s := NewSearcher(geo, res.add, WithDebounce(5*time.Millisecond), WithMinLength(3))
	defer s.Close()

	s.Query("Köl")
	require.Eventually(t, func() bool { return len(geo.calls()) == 1 }, time.Second, time.Millisecond)
}
