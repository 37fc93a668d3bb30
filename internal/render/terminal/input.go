package terminal

import (
	"sync"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/raycaster/internal/render"
)

// Input turns tcell key events into held and just-pressed key state.
type Input struct {
	mu      sync.Mutex
	hold    time.Duration
	now     func() time.Time
	lastHit map[render.Key]time.Time
	just    map[render.Key]bool
}

// NewInput creates an input tracker. A key stays pressed for hold after its
// most recent event.
func NewInput(hold time.Duration, now func() time.Time) *Input {
	return &Input{
		hold:    hold,
		now:     now,
		lastHit: make(map[render.Key]time.Time),
		just:    make(map[render.Key]bool),
	}
}

// Handle records a terminal event. Non-key events are ignored.
func (in *Input) Handle(ev tcell.Event) {
	kev, ok := ev.(*tcell.EventKey)
	if !ok {
		return
	}
	key, ok := tcellToKey(kev)
	if !ok {
		return
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	if !in.pressedLocked(key) {
		in.just[key] = true
	}
	in.lastHit[key] = in.now()
}

// EndFrame clears the just-pressed state after an update.
func (in *Input) EndFrame() {
	in.mu.Lock()
	clear(in.just)
	in.mu.Unlock()
}

// IsKeyPressed reports whether key had an event within the hold window.
func (in *Input) IsKeyPressed(key render.Key) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.pressedLocked(key)
}

// IsKeyJustPressed reports whether key went down since the last EndFrame.
func (in *Input) IsKeyJustPressed(key render.Key) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.just[key]
}

func (in *Input) pressedLocked(key render.Key) bool {
	t, ok := in.lastHit[key]
	return ok && in.now().Sub(t) < in.hold
}

func tcellToKey(ev *tcell.EventKey) (render.Key, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return render.KeyUp, true
	case tcell.KeyDown:
		return render.KeyDown, true
	case tcell.KeyLeft:
		return render.KeyLeft, true
	case tcell.KeyRight:
		return render.KeyRight, true
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return render.KeyEscape, true
	case tcell.KeyRune:
		switch unicode.ToLower(ev.Rune()) {
		case 'w':
			return render.KeyW, true
		case 'a':
			return render.KeyA, true
		case 's':
			return render.KeyS, true
		case 'd':
			return render.KeyD, true
		case 'f':
			return render.KeyF, true
		}
	}
	return 0, false
}
