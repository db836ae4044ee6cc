package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/pstuifzand/myorganisms/internal/async"
)

// PreferencesPath is the route of the preferences screen
const PreferencesPath = "/preferred-organisms"

// PreferenceState is the preference state the views read and act on
type PreferenceState interface {
	PreferredOrganisms() []string
	Enabled() bool
	Toggle(ctx context.Context) error
	Save(ctx context.Context, organisms []string) error
	Dismiss(ctx context.Context) error
	AvailableOrganisms(ctx context.Context) ([]string, error)
	NewOrganisms(ctx context.Context) ([]string, error)
	DisplayName() string
}

// PreferenceCount is the "(N of M)" shown next to the preferences link
type PreferenceCount struct {
	Preferred int
	Available int
}

func (c PreferenceCount) String() string {
	return fmt.Sprintf("(%d of %d)", c.Preferred, c.Available)
}

// SummaryViewOptions configures the summary bar
type SummaryViewOptions struct {
	State PreferenceState
	// Notify is called from a background goroutine when a load settles or
	// an action finishes; it should wake up the event loop.
	Notify     func()
	OnNavigate func(path string)
	OnError    func(err error)
}

type summaryTarget int

const (
	targetNone summaryTarget = iota
	targetLink
	targetToggle
	targetDismiss
)

type summaryHit struct {
	y, x0, x1 int
	target    summaryTarget
}

// SummaryView shows the preferences link with its count, the
// enabled/disabled toggle and, when organisms were added since the last
// save, a banner announcing them. The count and the new organisms load in
// the background, independently of each other.
type SummaryView struct {
	opts  SummaryViewOptions
	ctx   context.Context
	count *async.Loadable[PreferenceCount]
	fresh *async.Loadable[[]string]

	hits    []summaryHit
	buttons tcell.ButtonMask
}

// NewSummaryView creates the view and starts loading its data
func NewSummaryView(ctx context.Context, opts SummaryViewOptions) *SummaryView {
	v := &SummaryView{
		opts:  opts,
		ctx:   ctx,
		count: async.NewLoadable[PreferenceCount](opts.Notify),
		fresh: async.NewLoadable[[]string](opts.Notify),
	}
	v.Reload()
	return v
}

// Reload restarts both background loads, dropping results still in flight
func (v *SummaryView) Reload() {
	state := v.opts.State
	v.count.Start(v.ctx, func(ctx context.Context) (PreferenceCount, error) {
		available, err := state.AvailableOrganisms(ctx)
		if err != nil {
			return PreferenceCount{}, err
		}
		return PreferenceCount{Preferred: len(state.PreferredOrganisms()), Available: len(available)}, nil
	})
	v.fresh.Start(v.ctx, state.NewOrganisms)
}

// Count returns the loaded count, if any
func (v *SummaryView) Count() (PreferenceCount, bool) {
	return v.count.Value()
}

// NewOrganismCount returns the number of new organisms; zero while loading
// or after a failed load.
func (v *SummaryView) NewOrganismCount() int {
	fresh, _ := v.fresh.Value()
	return len(fresh)
}

// BannerVisible reports whether the new organisms banner shows at path
func (v *SummaryView) BannerVisible(path string) bool {
	return v.NewOrganismCount() > 0 && !strings.HasPrefix(path, PreferencesPath)
}

// Toggle flips the enabled flag in the background
func (v *SummaryView) Toggle() {
	go v.run(v.opts.State.Toggle)
}

// Dismiss acknowledges the new organisms in the background, saving the
// current preference list.
func (v *SummaryView) Dismiss() {
	go v.run(v.opts.State.Dismiss)
}

// LoadError returns the error of a failed count or new organism load
func (v *SummaryView) LoadError() error {
	if v.count.State() == async.Failed {
		return v.count.Err()
	}
	if v.fresh.State() == async.Failed {
		return v.fresh.Err()
	}
	return nil
}

// Stop cancels the loads in flight
func (v *SummaryView) Stop() {
	v.count.Reset()
	v.fresh.Reset()
}

func (v *SummaryView) run(action func(context.Context) error) {
	if err := action(v.ctx); err != nil && v.opts.OnError != nil {
		v.opts.OnError(err)
	}
	if v.opts.Notify != nil {
		v.opts.Notify()
	}
}

// Height returns the rows Render uses at path
func (v *SummaryView) Height(path string) int {
	if v.BannerVisible(path) {
		return 2
	}
	return 1
}

// Render draws the summary line (and banner) at row y
func (v *SummaryView) Render(screen *Screen, x, y, width int, path string) {
	v.hits = v.hits[:0]
	maxX := x + width
	screen.FillLine(x, y, width, tcell.StyleDefault)

	start := x
	cx := screen.DrawString(x, y, "⚙ My Organism Preferences", screen.SummaryLinkStyle())
	// Nothing is shown while the count loads or after it failed
	if count, state, _ := v.count.Get(); state == async.Loaded {
		cx = screen.DrawString(cx+1, y, count.String(), screen.CountStyle(count.Preferred))
	}
	v.hits = append(v.hits, summaryHit{y: y, x0: start, x1: cx, target: targetLink})

	enabled := v.opts.State.Enabled()
	label := "disabled"
	mark := "○"
	if enabled {
		label = "enabled"
		mark = "●"
	}
	toggle := fmt.Sprintf("[%s %s]", mark, label)
	tx := max(maxX-StringWidth(toggle), cx+2)
	if tx < maxX {
		end := screen.DrawString(tx, y, toggle, screen.ToggleStyle(enabled))
		v.hits = append(v.hits, summaryHit{y: y, x0: tx, x1: end, target: targetToggle})
	}

	if !v.BannerVisible(path) {
		return
	}
	y++
	style := screen.BannerStyle()
	screen.FillLine(x, y, width, style)
	n := v.NewOrganismCount()
	noun := "organisms"
	if n == 1 {
		noun = "organism"
	}
	name := v.opts.State.DisplayName()
	if name == "" {
		name = "This site"
	}
	text := fmt.Sprintf(" %s has %d new %s. Review your My Organisms list to include them.", name, n, noun)
	dismiss := "[dismiss] "
	dx := max(maxX-StringWidth(dismiss), x)
	screen.DrawStringLimited(x, y, text, dx-x-1, style)
	end := screen.DrawString(dx, y, dismiss, style.Bold(true))
	v.hits = append(v.hits, summaryHit{y: y, x0: dx, x1: end, target: targetDismiss})
}

// HandleMouse activates the link, the toggle or the dismiss button
func (v *SummaryView) HandleMouse(ev *tcell.EventMouse) bool {
	pressed := ev.Buttons()&tcell.Button1 != 0 && v.buttons&tcell.Button1 == 0
	v.buttons = ev.Buttons()
	if !pressed {
		return false
	}
	x, y := ev.Position()
	for _, hit := range v.hits {
		if y != hit.y || x < hit.x0 || x >= hit.x1 {
			continue
		}
		switch hit.target {
		case targetLink:
			if v.opts.OnNavigate != nil {
				v.opts.OnNavigate(PreferencesPath)
			}
		case targetToggle:
			v.Toggle()
		case targetDismiss:
			v.Dismiss()
		}
		return true
	}
	return false
}
