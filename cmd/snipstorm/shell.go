package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/snipstorm/internal/ambient"
	"github.com/dshills/snipstorm/internal/config"
	"github.com/dshills/snipstorm/internal/dictionary"
	"github.com/dshills/snipstorm/internal/engine/scanner"
	"github.com/dshills/snipstorm/internal/engine/surface"
	"github.com/dshills/snipstorm/internal/event"
	"github.com/dshills/snipstorm/internal/expand"
	"github.com/dshills/snipstorm/internal/plugin/script"
)

// shell is the interactive terminal front end: one flat surface edited
// in place, with the controller watching keystrokes.
type shell struct {
	screen tcell.Screen
	ctrl   *expand.Controller
	surf   *surface.Flat

	mu     sync.Mutex
	status string
	hint   string
}

// newShell wires a controller to a tcell screen.
func newShell(cfg config.Config, dict *dictionary.Dictionary, provider *ambient.Page, notifier *event.Notifier, scripts *script.Engine) (*shell, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}

	sh := &shell{
		screen: screen,
		surf:   surface.NewFlat(""),
	}

	sh.ctrl = expand.New(cfg, dict, provider, notifier,
		expand.WithScriptEngine(scripts),
		expand.WithScanListener(sh.onScan),
	)

	notifier.Subscribe(event.TopicAdvisory, func(payload any) {
		if adv, ok := payload.(event.Advisory); ok {
			sh.setStatus(adv.Message)
		}
	})
	notifier.Subscribe(event.TopicExpansionCompleted, func(payload any) {
		if u, ok := payload.(event.Usage); ok {
			sh.setStatus(fmt.Sprintf("expanded %q (~%d tokens)", u.Trigger, u.Tokens))
		}
	})
	notifier.Subscribe(event.TopicDictionaryReloaded, func(payload any) {
		if r, ok := payload.(event.DictionaryReload); ok {
			sh.setStatus(fmt.Sprintf("dictionary reloaded: %d snippets, %d templates", r.Snippets, r.Templates))
		}
	})

	return sh, nil
}

// onScan receives debounced scan hints from the controller.
func (sh *shell) onScan(match scanner.Match, ok bool) {
	sh.mu.Lock()
	if ok {
		sh.hint = fmt.Sprintf("trigger pending: %s", match.Trigger)
	} else {
		sh.hint = ""
	}
	sh.mu.Unlock()

	// Wake the event loop so the hint repaints promptly.
	_ = sh.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// setStatus records a status-line message and wakes the event loop.
func (sh *shell) setStatus(msg string) {
	sh.mu.Lock()
	sh.status = msg
	sh.mu.Unlock()

	_ = sh.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Run drives the edit loop until Esc or Ctrl-C.
func (sh *shell) Run(ctx context.Context) error {
	if err := sh.screen.Init(); err != nil {
		return err
	}
	defer sh.screen.Fini()
	defer sh.ctrl.Close()

	sh.setStatus("type :trigger then space/tab/enter; Ctrl-Z undoes; Esc quits")

	for {
		sh.draw()

		switch ev := sh.screen.PollEvent().(type) {
		case *tcell.EventResize:
			sh.screen.Sync()

		case *tcell.EventInterrupt:
			// Repaint only.

		case *tcell.EventKey:
			if done := sh.handleKey(ctx, ev); done {
				return nil
			}
		}
	}
}

// handleKey processes one keystroke. Returns true when the shell should
// exit.
func (sh *shell) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true

	case tcell.KeyCtrlZ:
		_ = sh.ctrl.Undo(ctx)

	case tcell.KeyEnter:
		sh.commit(ctx, expand.KeyEnter)

	case tcell.KeyTab:
		sh.commit(ctx, expand.KeyTab)

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		sh.backspace()
		sh.ctrl.OnInput(sh.surf)

	case tcell.KeyLeft:
		sh.moveCursor(-1)

	case tcell.KeyRight:
		sh.moveCursor(1)

	case tcell.KeyRune:
		if ev.Rune() == ' ' {
			sh.commit(ctx, expand.KeySpace)
			break
		}
		_, _ = sh.surf.Insert(string(ev.Rune()))
		sh.ctrl.OnInput(sh.surf)
	}

	return false
}

// commit hands a commit key to the controller; when no expansion
// occurred the literal key is inserted as typed.
func (sh *shell) commit(ctx context.Context, key expand.Key) {
	handled, _ := sh.ctrl.HandleKey(ctx, sh.surf, key)
	if !handled {
		_, _ = sh.surf.Insert(key.Literal())
	}
}

// backspace deletes the rune before the cursor.
func (sh *shell) backspace() {
	start, end := sh.surf.Selection()
	if start == end {
		if start == 0 {
			return
		}
		text := sh.surf.PlainText()
		start = prevBoundary(text, start)
	}
	_, _ = sh.surf.Splice(start, end, "")
}

// moveCursor shifts the collapsed cursor by one rune.
func (sh *shell) moveCursor(dir int) {
	_, cursor := sh.surf.Selection()
	text := sh.surf.PlainText()

	if dir < 0 {
		if cursor > 0 {
			_ = sh.surf.SetCursor(prevBoundary(text, cursor))
		}
		return
	}
	if cursor < len(text) {
		_ = sh.surf.SetCursor(nextBoundary(text, cursor))
	}
}

// prevBoundary returns the byte offset of the rune before offset.
func prevBoundary(text string, offset int) int {
	for offset > 0 {
		offset--
		if isRuneStart(text[offset]) {
			break
		}
	}
	return offset
}

// nextBoundary returns the byte offset of the rune after offset.
func nextBoundary(text string, offset int) int {
	offset++
	for offset < len(text) && !isRuneStart(text[offset]) {
		offset++
	}
	return offset
}

// isRuneStart reports whether b begins a UTF-8 sequence.
func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// draw repaints the buffer, the hint line, and the status line.
func (sh *shell) draw() {
	sh.screen.Clear()
	width, height := sh.screen.Size()
	if height < 3 {
		sh.screen.Show()
		return
	}

	text := sh.surf.PlainText()
	_, cursor := sh.surf.Selection()

	// Buffer area fills the screen above the hint and status lines.
	x, y := 0, 0
	cx, cy := 0, 0
	for i, r := range text {
		if i == cursor {
			cx, cy = x, y
		}
		if r == '\n' {
			x, y = 0, y+1
			continue
		}
		if x < width && y < height-2 {
			sh.screen.SetContent(x, y, r, nil, tcell.StyleDefault)
		}
		x++
	}
	if cursor >= len(text) {
		cx, cy = x, y
	}

	hintStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	statusStyle := tcell.StyleDefault.Foreground(tcell.ColorGreen)

	sh.mu.Lock()
	hint, status := sh.hint, sh.status
	sh.mu.Unlock()

	drawLine(sh.screen, 0, height-2, width, hint, hintStyle)
	drawLine(sh.screen, 0, height-1, width, status, statusStyle)

	if cy < height-2 {
		sh.screen.ShowCursor(cx, cy)
	} else {
		sh.screen.HideCursor()
	}

	sh.screen.Show()
}

// drawLine writes a single clipped line of text.
func drawLine(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	text = strings.ReplaceAll(text, "\n", " ")
	col := x
	for _, r := range text {
		if col >= width {
			break
		}
		screen.SetContent(col, y, r, nil, style)
		col++
	}
}
