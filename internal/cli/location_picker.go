package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/tourdesk/internal/cli/formatter"
	"github.com/alexanderramin/tourdesk/internal/geocode"
	"github.com/alexanderramin/tourdesk/internal/locsearch"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// locationResultMsg carries a search answer into the picker.
type locationResultMsg locsearch.Result

type pickerKeys struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Cancel key.Binding
}

var defaultPickerKeys = pickerKeys{
	Up:     key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "previous")),
	Down:   key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next")),
	Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "choose")),
	Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),
}

// querier is the part of locsearch.Searcher the picker drives.
type querier interface {
	Query(text string)
}

// locationPicker is a search-as-you-type place chooser. Keystrokes go to
// the searcher; answers come back as locationResultMsg.
type locationPicker struct {
	input     textinput.Model
	search    querier
	keys      pickerKeys
	field     locsearch.Field
	shown     string
	locations []geocode.Location
	err       error
	cursor    int
	searching bool
	cancelled bool
}

func newLocationPicker(search querier, initial string) *locationPicker {
	ti := textinput.New()
	ti.Placeholder = "Type a city, landmark or address"
	ti.Prompt = "› "
	ti.CharLimit = 200
	ti.SetValue(initial)
	ti.Focus()

	p := &locationPicker{input: ti, search: search, keys: defaultPickerKeys}
	p.field.SetText(initial)
	p.searching = strings.TrimSpace(initial) != ""
	return p
}

func (p *locationPicker) Init() tea.Cmd {
	if !p.searching {
		return textinput.Blink
	}
	text := p.input.Value()
	return tea.Batch(textinput.Blink, func() tea.Msg {
		p.search.Query(text)
		return nil
	})
}

func (p *locationPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case locationResultMsg:
		if msg.Query != strings.TrimSpace(p.input.Value()) {
			return p, nil
		}
		p.searching = false
		p.shown = msg.Query
		p.locations = msg.Locations
		p.err = msg.Err
		p.cursor = 0
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Cancel):
			p.cancelled = true
			return p, tea.Quit
		case key.Matches(msg, p.keys.Select):
			if len(p.locations) == 0 {
				return p, nil
			}
			p.field.Select(p.locations[p.cursor])
			return p, tea.Quit
		case key.Matches(msg, p.keys.Up):
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil
		case key.Matches(msg, p.keys.Down):
			if p.cursor < len(p.locations)-1 {
				p.cursor++
			}
			return p, nil
		}
	}

	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if after := p.input.Value(); after != before {
		p.field.SetText(after)
		p.searching = true
		p.search.Query(after)
	}
	return p, cmd
}

func (p *locationPicker) View() string {
	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render("Find a place") + "\n")
	b.WriteString(p.input.View() + "\n\n")

	switch {
	case p.searching:
		b.WriteString(formatter.Dim("searching…") + "\n")
	case p.err != nil:
		b.WriteString(formatter.StyleRed.Render("search failed: "+p.err.Error()) + "\n")
	case p.shown != "" && len(p.locations) == 0:
		b.WriteString(formatter.Dim(fmt.Sprintf("no places match %q", p.shown)) + "\n")
	}
	for i, loc := range p.locations {
		marker := "  "
		line := loc.Name + "  " + formatter.Dim(loc.DisplayName)
		if i == p.cursor {
			marker = formatter.StyleHeader.Render("▸ ")
			line = formatter.StyleBold.Render(loc.Name) + "  " + formatter.Dim(loc.DisplayName)
		}
		b.WriteString(marker + line + "\n")
	}

	b.WriteString("\n" + formatter.Dim(strings.Join([]string{
		p.keys.Up.Help().Key + "/" + p.keys.Down.Help().Key + " move",
		p.keys.Select.Help().Key + " " + p.keys.Select.Help().Desc,
		p.keys.Cancel.Help().Key + " " + p.keys.Cancel.Help().Desc,
	}, " · ")))
	return b.String()
}

// pickLocation runs the picker on the terminal and returns the confirmed
// place. Typed text that was never matched to a result is rejected.
func pickLocation(cmd *cobra.Command, app *App, initial string) (geocode.Location, error) {
	if !app.interactive() {
		return geocode.Location{}, fmt.Errorf("--pick-location needs an interactive terminal; use \"tourdesk location search\" instead")
	}
	if app.Geocoder == nil {
		return geocode.Location{}, fmt.Errorf("place search is not configured")
	}

	// Short queries answer synchronously from inside Update, so results are
	// sent from a fresh goroutine to keep the event loop free.
	var prog *tea.Program
	searcher := locsearch.NewSearcher(app.Geocoder, func(r locsearch.Result) {
		go prog.Send(locationResultMsg(r))
	}, app.Search...)
	defer searcher.Close()

	prog = tea.NewProgram(newLocationPicker(searcher, initial),
		tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.ErrOrStderr()), tea.WithContext(cmd.Context()))

	final, err := prog.Run()
	if err != nil {
		return geocode.Location{}, fmt.Errorf("running place picker: %w", err)
	}
	p := final.(*locationPicker)
	if p.cancelled {
		return geocode.Location{}, fmt.Errorf("place search cancelled")
	}
	return p.field.Require()
}
