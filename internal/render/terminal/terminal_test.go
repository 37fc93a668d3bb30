package terminal

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"chosenoffset.com/raycaster/internal/logger"
	"chosenoffset.com/raycaster/internal/render"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func key(k tcell.Key, r rune) *tcell.EventKey {
	return tcell.NewEventKey(k, r, tcell.ModNone)
}

func TestInputMapping(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want render.Key
	}{
		{"w", key(tcell.KeyRune, 'w'), render.KeyW},
		{"upper W", key(tcell.KeyRune, 'W'), render.KeyW},
		{"a", key(tcell.KeyRune, 'a'), render.KeyA},
		{"s", key(tcell.KeyRune, 's'), render.KeyS},
		{"d", key(tcell.KeyRune, 'd'), render.KeyD},
		{"f", key(tcell.KeyRune, 'f'), render.KeyF},
		{"up", key(tcell.KeyUp, 0), render.KeyUp},
		{"down", key(tcell.KeyDown, 0), render.KeyDown},
		{"left", key(tcell.KeyLeft, 0), render.KeyLeft},
		{"right", key(tcell.KeyRight, 0), render.KeyRight},
		{"escape", key(tcell.KeyEscape, 0), render.KeyEscape},
		{"ctrl-c", key(tcell.KeyCtrlC, 0), render.KeyEscape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tcellToKey(tt.ev)
			if !ok {
				t.Fatalf("Expected %s to map to a key", tt.name)
			}
			if got != tt.want {
				t.Errorf("Expected key %d, got %d", tt.want, got)
			}
		})
	}

	if _, ok := tcellToKey(key(tcell.KeyRune, 'q')); ok {
		t.Error("Expected q to be unmapped")
	}
}

func TestInputHoldWindow(t *testing.T) {
	clock := &fakeClock{t: time.Unix(100, 0)}
	in := NewInput(200*time.Millisecond, clock.now)

	in.Handle(key(tcell.KeyRune, 'w'))
	if !in.IsKeyPressed(render.KeyW) {
		t.Fatal("Expected W pressed right after its event")
	}
	if !in.IsKeyJustPressed(render.KeyW) {
		t.Error("Expected W just pressed")
	}

	in.EndFrame()
	if in.IsKeyJustPressed(render.KeyW) {
		t.Error("Expected just-pressed to clear after EndFrame")
	}

	clock.t = clock.t.Add(150 * time.Millisecond)
	if !in.IsKeyPressed(render.KeyW) {
		t.Error("Expected W still held inside the window")
	}

	// Auto-repeat refreshes the hold without a new just-pressed edge.
	in.Handle(key(tcell.KeyRune, 'w'))
	if in.IsKeyJustPressed(render.KeyW) {
		t.Error("Expected repeat not to count as just pressed")
	}

	clock.t = clock.t.Add(250 * time.Millisecond)
	if in.IsKeyPressed(render.KeyW) {
		t.Error("Expected W released after the window")
	}
}

func TestInputIgnoresOtherEvents(t *testing.T) {
	in := NewInput(time.Second, time.Now)
	in.Handle(tcell.NewEventResize(10, 10))
	if in.IsKeyPressed(render.KeyEscape) {
		t.Error("Expected resize to leave keys untouched")
	}
}

func TestImagePresent(t *testing.T) {
	s := tcell.NewSimulationScreen("")
	if err := s.Init(); err != nil {
		t.Fatalf("Failed to init screen: %v", err)
	}
	defer s.Fini()
	s.SetSize(2, 1)

	// 2x2 frame: red over blue on the left, half-alpha white over black on the right.
	img := &Image{}
	img.Resize(2, 2)
	img.WritePixels([]byte{
		255, 0, 0, 255, 255, 255, 255, 128,
		0, 0, 255, 255, 0, 0, 0, 255,
	})
	img.Present(s)
	s.Show()

	cells, w, h := s.GetContents()
	if w != 2 || h != 1 {
		t.Fatalf("Expected 2x1 screen, got %dx%d", w, h)
	}

	fg, bg, _ := cells[0].Style.Decompose()
	if fg != tcell.NewRGBColor(255, 0, 0) || bg != tcell.NewRGBColor(0, 0, 255) {
		t.Errorf("Expected red over blue, got %v over %v", fg, bg)
	}
	if len(cells[0].Runes) == 0 || cells[0].Runes[0] != halfBlock {
		t.Errorf("Expected half block, got %v", cells[0].Runes)
	}

	fg, _, _ = cells[1].Style.Decompose()
	if fg != tcell.NewRGBColor(128, 128, 128) {
		t.Errorf("Expected white composited to gray, got %v", fg)
	}
}

func TestImageIgnoresShortFrame(t *testing.T) {
	img := &Image{}
	img.Resize(2, 2)
	img.WritePixels([]byte{1, 2, 3})
	for _, b := range img.pix {
		if b != 0 {
			t.Fatal("Expected short frame to be dropped")
		}
	}
}

func TestImageOverlay(t *testing.T) {
	s := tcell.NewSimulationScreen("")
	if err := s.Init(); err != nil {
		t.Fatalf("Failed to init screen: %v", err)
	}
	defer s.Fini()
	s.SetSize(4, 2)

	img := &Image{}
	img.Resize(4, 4)
	img.DebugText("FPS: 60")
	img.Present(s)
	s.Show()

	cells, _, _ := s.GetContents()
	want := "FPS:"
	for i, r := range want {
		if len(cells[i].Runes) == 0 || cells[i].Runes[0] != r {
			t.Errorf("Expected %q at column %d, got %v", r, i, cells[i].Runes)
		}
	}
}

type scriptedGame struct {
	screen  tcell.SimulationScreen
	input   render.InputManager
	updates int
	draws   int
	size    [2]int
}

func (g *scriptedGame) Update() error {
	g.updates++
	if g.input.IsKeyJustPressed(render.KeyEscape) {
		return render.ErrTerminated
	}
	if g.updates == 2 {
		g.screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	}
	if g.updates > 5000 {
		return errors.New("escape never arrived")
	}
	return nil
}

func (g *scriptedGame) Draw(screen render.Image) {
	g.draws++
	w, h := screen.Size()
	g.size = [2]int{w, h}
	screen.WritePixels(make([]byte, w*h*4))
}

func (g *scriptedGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return 16, 12
}

func TestRunGameStopsOnEscape(t *testing.T) {
	s := tcell.NewSimulationScreen("")
	e := NewEngine(s, Options{TPS: 1000})
	e.SetWindowTitle("test")
	g := &scriptedGame{screen: s, input: e.Input()}

	if err := e.RunGame(g); err != nil {
		t.Fatalf("Expected clean exit, got %v", err)
	}
	if g.draws == 0 {
		t.Error("Expected at least one frame drawn")
	}
	if g.size != [2]int{16, 12} {
		t.Errorf("Expected frame sized from Layout, got %v", g.size)
	}
}

func TestRunGamePropagatesErrors(t *testing.T) {
	s := tcell.NewSimulationScreen("")
	e := NewEngine(s, Options{TPS: 1000})
	boom := errors.New("boom")

	err := e.RunGame(failingGame{err: boom})
	if !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v", err)
	}
}

type failingGame struct{ err error }

func (g failingGame) Update() error              { return g.err }
func (g failingGame) Draw(screen render.Image)   {}
func (g failingGame) Layout(w, h int) (int, int) { return w, h }

type loggingGame struct {
	scriptedGame
}

func (g *loggingGame) Draw(screen render.Image) {
	g.scriptedGame.Draw(screen)
	logger.Log.Info("frame drawn")
}

func TestRunGameKeepsLogsOffScreen(t *testing.T) {
	var stdout, captured bytes.Buffer
	logger.InitWithOutput(&stdout)
	t.Cleanup(logger.Init)

	s := tcell.NewSimulationScreen("")
	e := NewEngine(s, Options{TPS: 1000, LogOutput: &captured})
	g := &loggingGame{scriptedGame{screen: s, input: e.Input()}}

	if err := e.RunGame(g); err != nil {
		t.Fatalf("Expected clean exit, got %v", err)
	}
	if g.draws == 0 {
		t.Fatal("Expected at least one frame drawn")
	}
	if strings.Contains(stdout.String(), "frame drawn") {
		t.Errorf("Expected no log lines on the terminal while the screen is active, got %q", stdout.String())
	}
	if !strings.Contains(captured.String(), "frame drawn") {
		t.Errorf("Expected frame logs in the redirected output, got %q", captured.String())
	}

	logger.Log.Info("after exit")
	if !strings.Contains(stdout.String(), "after exit") {
		t.Error("Expected logging to return to the original output after RunGame")
	}
}

func TestRunGameDiscardsLogsByDefault(t *testing.T) {
	var stdout bytes.Buffer
	logger.InitWithOutput(&stdout)
	t.Cleanup(logger.Init)

	s := tcell.NewSimulationScreen("")
	e := NewEngine(s, Options{TPS: 1000})
	g := &loggingGame{scriptedGame{screen: s, input: e.Input()}}

	if err := e.RunGame(g); err != nil {
		t.Fatalf("Expected clean exit, got %v", err)
	}
	if strings.Contains(stdout.String(), "frame drawn") {
		t.Errorf("Expected frame logs discarded, got %q", stdout.String())
	}
}
