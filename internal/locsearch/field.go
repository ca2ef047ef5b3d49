package locsearch

import (
	"errors"

	"github.com/alexanderramin/tourdesk/internal/geocode"
)

// ErrNoSelection is returned by Field.Require when the text was typed but
// never matched to a geocoded location.
var ErrNoSelection = errors.New("no location selected")

// Field is the state of a location input: free text plus, optionally, the
// geocoded location the text was confirmed against.
type Field struct {
	text     string
	selected *geocode.Location
}

// SetText updates the input. A selection survives only while the text still
// equals its display name.
func (f *Field) SetText(text string) {
	f.text = text
	if f.selected != nil && f.selected.DisplayName != text {
		f.selected = nil
	}
}

// Select confirms loc and replaces the text with its display name.
func (f *Field) Select(loc geocode.Location) {
	f.selected = &loc
	f.text = loc.DisplayName
}

func (f *Field) Clear() {
	f.text = ""
	f.selected = nil
}

func (f *Field) Text() string { return f.text }

func (f *Field) Selection() (geocode.Location, bool) {
	if f.selected == nil {
		return geocode.Location{}, false
	}
	return *f.selected, true
}

func (f *Field) Validated() bool { return f.selected != nil }

// Require returns the selected location or ErrNoSelection.
func (f *Field) Require() (geocode.Location, error) {
	if f.selected == nil {
		return geocode.Location{}, ErrNoSelection
	}
	return *f.selected, nil
}
