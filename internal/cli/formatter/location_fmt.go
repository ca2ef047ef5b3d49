package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tourdesk/internal/domain"
	"github.com/alexanderramin/tourdesk/internal/geocode"
)

func FormatLocations(query string, locs []geocode.Location) string {
	if len(locs) == 0 {
		return Dim(fmt.Sprintf("No places match %q.", query))
	}
	var b strings.Builder
	for i, l := range locs {
		b.WriteString(fmt.Sprintf("%2d. %s  %s\n", i+1, Bold(l.Name), Dim(l.DisplayName)))
		b.WriteString(fmt.Sprintf("    %s  %.4f, %.4f\n", TypeBadge(l.Type), l.Lat, l.Lon))
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatChangeEvent renders one change-log row as a single line.
func FormatChangeEvent(ev domain.ChangeEvent) string {
	op := StyleBlue.Render(string(ev.Op))
	switch ev.Op {
	case domain.ChangeInsert:
		op = StyleGreen.Render(string(ev.Op))
	case domain.ChangeDelete:
		op = StyleRed.Render(string(ev.Op))
	}
	return fmt.Sprintf("%s  #%d  %-6s  %s  %s",
		Dim(ev.CreatedAt.Format("15:04:05")), ev.Seq, op, ev.Table, ev.RecordID)
}
