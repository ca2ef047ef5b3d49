package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activities(ids ...string) []ItineraryDayActivity {
	out := make([]ItineraryDayActivity, len(ids))
	for i, id := range ids {
		out[i] = ItineraryDayActivity{ID: id, Type: ActivityCustom, Title: id, OrderIndex: i}
	}
	return out
}

func activityIDs(list []ItineraryDayActivity) []string {
	ids := make([]string, len(list))
	for i, a := range list {
		ids[i] = a.ID
	}
	return ids
}

func assertContiguous(t *testing.T, list []ItineraryDayActivity) {
	t.Helper()
	for i, a := range list {
		assert.Equal(t, i, a.OrderIndex, "activity %s", a.ID)
	}
}

func TestReorderActivities_MoveDown(t *testing.T) {
	got := ReorderActivities(activities("a", "b", "c", "d"), "a", "c")
	assert.Equal(t, []string{"b", "c", "a", "d"}, activityIDs(got))
	assertContiguous(t, got)
}

func TestReorderActivities_MoveUp(t *testing.T) {
	got := ReorderActivities(activities("a", "b", "c", "d"), "d", "b")
	assert.Equal(t, []string{"a", "d", "b", "c"}, activityIDs(got))
	assertContiguous(t, got)
}

func TestReorderActivities_DoesNotMutateInput(t *testing.T) {
	in := activities("a", "b", "c")
	_ = ReorderActivities(in, "a", "c")
	assert.Equal(t, []string{"a", "b", "c"}, activityIDs(in))
	assertContiguous(t, in)
}

func TestReorderActivities_NoOps(t *testing.T) {
	in := activities("a", "b", "c")

	assert.Equal(t, []string{"a", "b", "c"}, activityIDs(ReorderActivities(in, "b", "b")))
	assert.Equal(t, []string{"a", "b", "c"}, activityIDs(ReorderActivities(in, "missing", "b")))
	assert.Equal(t, []string{"a", "b", "c"}, activityIDs(ReorderActivities(in, "a", "missing")))
}

// Reordering and then moving the same activity back to its original slot
// restores both the order and the indices.
func TestReorderActivities_InverseRestoresOrder(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	for from := range ids {
		for to := range ids {
			if from == to {
				continue
			}
			orig := activities(ids...)
			moved := ReorderActivities(orig, ids[from], ids[to])

			// The activity now sitting where the source used to be.
			back := ReorderActivities(moved, ids[from], moved[from].ID)

			require.Equal(t, ids, activityIDs(back), "from=%d to=%d", from, to)
			assertContiguous(t, back)
		}
	}
}

func TestInsertActivity_ClampsPosition(t *testing.T) {
	list := activities("a", "b")
	got := InsertActivity(list, ItineraryDayActivity{ID: "x"}, 99)
	assert.Equal(t, []string{"a", "b", "x"}, activityIDs(got))
	assertContiguous(t, got)

	got = InsertActivity(list, ItineraryDayActivity{ID: "y"}, 0)
	assert.Equal(t, []string{"y", "a", "b"}, activityIDs(got))
	assertContiguous(t, got)
}

func TestRemoveActivity(t *testing.T) {
	got, ok := RemoveActivity(activities("a", "b", "c"), "b")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "c"}, activityIDs(got))
	assertContiguous(t, got)

	_, ok = RemoveActivity(activities("a"), "zzz")
	assert.False(t, ok)
}

func TestItineraryDay_Cost(t *testing.T) {
	day := ItineraryDay{Activities: []ItineraryDayActivity{
		{ID: "a", Cost: decimal.NewFromInt(40)},
		{ID: "b", Cost: decimal.RequireFromString("12.50")},
	}}
	assert.True(t, decimal.RequireFromString("52.50").Equal(day.Cost()))
	assert.True(t, day.HasActivities())
	assert.Equal(t, 1, day.ActivityIndex("b"))
}

func TestValidateTimeSlot(t *testing.T) {
	tests := []struct {
		slot string
		ok   bool
	}{
		{"", true},
		{"09:00-13:00", true},
		{"00:00-23:59", true},
		{"13:00-09:00", false},
		{"09:00-09:00", false},
		{"9:00-13:00", false},
		{"09:00", false},
		{"25:00-26:00", false},
		{"morning", false},
	}
	for _, tt := range tests {
		t.Run(tt.slot, func(t *testing.T) {
			err := ValidateTimeSlot(tt.slot)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTimeSlot)
			}
		})
	}
}
