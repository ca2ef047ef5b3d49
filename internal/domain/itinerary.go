package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ItineraryDayActivity is a placed activity within a day.
type ItineraryDayActivity struct {
	ID            string
	Type          ActivityType
	Title         string
	PackageID     string
	SelectionID   string
	TimeSlot      string
	DurationHours float64
	Cost          decimal.Decimal
	OrderIndex    int
	Location      string
	Notes         string
}

// ErrInvalidTimeSlot is returned for a time slot not shaped like "09:00-13:00".
var ErrInvalidTimeSlot = errors.New(`time slot must look like "HH:MM-HH:MM" with the end after the start`)

// ValidateTimeSlot accepts an empty slot or "HH:MM-HH:MM" on a 24-hour clock.
func ValidateTimeSlot(slot string) error {
	if slot == "" {
		return nil
	}
	from, to, ok := strings.Cut(slot, "-")
	if !ok || len(from) != 5 || len(to) != 5 {
		return ErrInvalidTimeSlot
	}
	start, err := time.Parse("15:04", from)
	if err != nil {
		return ErrInvalidTimeSlot
	}
	end, err := time.Parse("15:04", to)
	if err != nil || !end.After(start) {
		return ErrInvalidTimeSlot
	}
	return nil
}

// ItineraryDay is one calendar day of the trip.
type ItineraryDay struct {
	ID             string
	DayNumber      int
	Date           time.Time
	Location       string
	Activities     []ItineraryDayActivity
	Accommodation  string
	Transportation string
	Notes          string
}

// Cost sums the activity costs of the day.
func (d *ItineraryDay) Cost() decimal.Decimal {
	total := decimal.Zero
	for _, a := range d.Activities {
		total = total.Add(a.Cost)
	}
	return total
}

// HasActivities reports whether anything is planned for the day.
func (d *ItineraryDay) HasActivities() bool {
	return len(d.Activities) > 0
}

// ActivityIndex returns the position of the activity with the given id, or -1.
func (d *ItineraryDay) ActivityIndex(id string) int {
	return indexOfActivity(d.Activities, id)
}

// ActivityIndexBySelection returns the position of the activity placed from
// the given package selection, or -1.
func (d *ItineraryDay) ActivityIndexBySelection(selectionID string) int {
	for i, a := range d.Activities {
		if a.SelectionID == selectionID {
			return i
		}
	}
	return -1
}

func indexOfActivity(list []ItineraryDayActivity, id string) int {
	for i, a := range list {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// RenumberActivities assigns OrderIndex 0..n-1 following slice order.
func RenumberActivities(list []ItineraryDayActivity) {
	for i := range list {
		list[i].OrderIndex = i
	}
}

// ReorderActivities moves the source activity to the position currently held
// by the target activity and renumbers the result. The input slice is never
// modified. Returns the input unchanged when sourceID equals targetID or
// either id is absent.
func ReorderActivities(list []ItineraryDayActivity, sourceID, targetID string) []ItineraryDayActivity {
	if sourceID == targetID {
		return list
	}
	from := indexOfActivity(list, sourceID)
	to := indexOfActivity(list, targetID)
	if from < 0 || to < 0 {
		return list
	}

	out := make([]ItineraryDayActivity, 0, len(list))
	out = append(out, list[:from]...)
	out = append(out, list[from+1:]...)

	moved := list[from]
	out = append(out, ItineraryDayActivity{})
	copy(out[to+1:], out[to:])
	out[to] = moved

	RenumberActivities(out)
	return out
}

// InsertActivity returns a copy of list with a inserted at pos (clamped to
// the list bounds), renumbered.
func InsertActivity(list []ItineraryDayActivity, a ItineraryDayActivity, pos int) []ItineraryDayActivity {
	if pos < 0 || pos > len(list) {
		pos = len(list)
	}
	out := make([]ItineraryDayActivity, 0, len(list)+1)
	out = append(out, list[:pos]...)
	out = append(out, a)
	out = append(out, list[pos:]...)
	RenumberActivities(out)
	return out
}

// RemoveActivity returns a copy of list without the activity id, renumbered.
// The second result is false when the id was not present.
func RemoveActivity(list []ItineraryDayActivity, id string) ([]ItineraryDayActivity, bool) {
	idx := indexOfActivity(list, id)
	if idx < 0 {
		return list, false
	}
	out := make([]ItineraryDayActivity, 0, len(list)-1)
	out = append(out, list[:idx]...)
	out = append(out, list[idx+1:]...)
	RenumberActivities(out)
	return out, true
}
