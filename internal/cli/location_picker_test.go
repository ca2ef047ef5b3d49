package cli

import (
	"errors"
	"testing"

	"github.com/alexanderramin/tourdesk/internal/geocode"
	"github.com/alexanderramin/tourdesk/internal/locsearch"
	"github.com/alexanderramin/tourdesk/internal/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingQuerier struct {
	queries []string
}

func (q *recordingQuerier) Query(text string) {
	q.queries = append(q.queries, text)
}

var ubudPlaces = []geocode.Location{
	{PlaceID: "1", Name: "Ubud", DisplayName: "Ubud, Gianyar, Bali, Indonesia"},
	{PlaceID: "2", Name: "Ubud Palace", DisplayName: "Ubud Palace, Jalan Raya Ubud, Bali, Indonesia"},
}

func newPickerDriver(t *testing.T, initial string) (*teatest.Driver, *recordingQuerier) {
	t.Helper()
	q := &recordingQuerier{}
	d := teatest.New(t, newLocationPicker(q, initial), teatest.WithSize(80, 24))
	d.DrainInit()
	return d, q
}

func picker(d *teatest.Driver) *locationPicker {
	return d.Model.(*locationPicker)
}

func TestLocationPicker_TypingQueriesEachChange(t *testing.T) {
	d, q := newPickerDriver(t, "")
	assert.Empty(t, q.queries)

	d.Type("Ub")
	assert.Equal(t, []string{"U", "Ub"}, q.queries)
	d.AssertView("Find a place", "searching…")
}

func TestLocationPicker_InitialTextSearchesOnStart(t *testing.T) {
	_, q := newPickerDriver(t, "Bali")
	assert.Equal(t, []string{"Bali"}, q.queries)
}

func TestLocationPicker_IgnoresStaleResults(t *testing.T) {
	d, _ := newPickerDriver(t, "")
	d.Type("Ub")

	d.Send(locationResultMsg{Query: "U", Locations: []geocode.Location{{Name: "Uluwatu"}}})
	assert.Empty(t, picker(d).locations)
	d.AssertView("searching…")

	d.Send(locationResultMsg{Query: "Ub", Locations: ubudPlaces})
	assert.Len(t, picker(d).locations, 2)
	d.AssertView("Ubud Palace")
	assert.NotContains(t, d.View(), "searching…")
}

func TestLocationPicker_SelectMovesCursorAndQuits(t *testing.T) {
	d, _ := newPickerDriver(t, "")
	d.Type("Ubud")
	d.Send(locationResultMsg{Query: "Ubud", Locations: ubudPlaces})

	d.PressDown()
	d.PressDown()
	assert.Equal(t, 1, picker(d).cursor)
	d.PressUp()
	d.PressDown()

	d.PressEnter()
	require.True(t, d.Quitting)
	p := picker(d)
	assert.False(t, p.cancelled)
	loc, err := p.field.Require()
	require.NoError(t, err)
	assert.Equal(t, "2", loc.PlaceID)
}

func TestLocationPicker_EnterWithoutResultsKeepsRunning(t *testing.T) {
	d, _ := newPickerDriver(t, "")
	d.Type("Zz")
	d.Send(locationResultMsg{Query: "Zz"})
	d.AssertView(`no places match "Zz"`)

	d.PressEnter()
	assert.False(t, d.Quitting)
	_, err := picker(d).field.Require()
	assert.ErrorIs(t, err, locsearch.ErrNoSelection)
}

func TestLocationPicker_ShowsSearchFailure(t *testing.T) {
	d, _ := newPickerDriver(t, "")
	d.Type("Ubud")
	d.Send(locationResultMsg{Query: "Ubud", Err: errors.New("rate limited")})
	d.AssertView("search failed: rate limited")
}

func TestLocationPicker_EditingAfterResultsSearchesAgain(t *testing.T) {
	d, q := newPickerDriver(t, "")
	d.Type("Ubud")
	d.Send(locationResultMsg{Query: "Ubud", Locations: ubudPlaces})

	d.Backspace(1)
	assert.Equal(t, "Ubu", q.queries[len(q.queries)-1])
	assert.Equal(t, "Ubu", picker(d).field.Text())
	d.AssertView("searching…")
}

func TestLocationPicker_EscCancels(t *testing.T) {
	d, _ := newPickerDriver(t, "")
	d.Type("Ubud")
	d.Send(locationResultMsg{Query: "Ubud", Locations: ubudPlaces})

	d.PressEsc()
	require.True(t, d.Quitting)
	assert.True(t, picker(d).cancelled)
	assert.False(t, picker(d).field.Validated())
}
