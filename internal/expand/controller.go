// Package expand orchestrates trigger expansion: scan, resolve, wrap,
// splice, history push, and undo.
//
// A Controller is constructed once per page context with injected
// configuration and owns its history stack; it holds no package-level
// state. While an expansion is between Resolving and Splicing, new
// commit events are ignored outright (not queued) so overlapping
// expansions cannot interleave writes, and the guard is released on
// every exit path including failure.
package expand

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/snipstorm/internal/ambient"
	"github.com/dshills/snipstorm/internal/config"
	"github.com/dshills/snipstorm/internal/debounce"
	"github.com/dshills/snipstorm/internal/dictionary"
	"github.com/dshills/snipstorm/internal/engine/history"
	"github.com/dshills/snipstorm/internal/engine/resolve"
	"github.com/dshills/snipstorm/internal/engine/scanner"
	"github.com/dshills/snipstorm/internal/engine/surface"
	"github.com/dshills/snipstorm/internal/engine/template"
	"github.com/dshills/snipstorm/internal/event"
	"github.com/dshills/snipstorm/internal/form"
	"github.com/dshills/snipstorm/internal/plugin/script"
)

// Errors returned by the controller.
var (
	// ErrBusy is returned when a commit arrives while another expansion
	// is in flight. The event is dropped, never queued.
	ErrBusy = errors.New("expansion in progress")

	// ErrResolutionFailed wraps resolver failures. The expansion is
	// aborted with the typed trigger text left in place.
	ErrResolutionFailed = errors.New("resolution failed")
)

// ScanListener receives the result of each debounced input scan. It is a
// hint channel for hosts (e.g. to surface a "trigger pending" cue); it
// plays no role in committing.
type ScanListener func(match scanner.Match, ok bool)

// Controller runs the expansion pipeline.
type Controller struct {
	dict     *dictionary.Dictionary
	provider ambient.Provider
	resolver resolve.Interface
	scripts  *script.Engine
	events   *event.Notifier
	history  *history.Stack
	scanner  *scanner.Scanner

	tokenAdvisory int

	state      atomic.Int32
	processing atomic.Bool

	scanMu       sync.Mutex
	scanSurface  surface.Surface
	scanCue      *debounce.Debouncer
	scanListener ScanListener
}

// Option configures a Controller.
type Option func(*Controller)

// WithResolver replaces the local resolver, e.g. with an out-of-process
// delegate behind the same contract.
func WithResolver(r resolve.Interface) Option {
	return func(c *Controller) {
		c.resolver = r
	}
}

// WithScriptEngine enables Lua scripted variables.
func WithScriptEngine(e *script.Engine) Option {
	return func(c *Controller) {
		c.scripts = e
	}
}

// WithScanListener registers a hint callback for debounced scans.
func WithScanListener(fn ScanListener) Option {
	return func(c *Controller) {
		c.scanListener = fn
	}
}

// New creates a controller for one page context.
func New(cfg config.Config, dict *dictionary.Dictionary, provider ambient.Provider, events *event.Notifier, opts ...Option) *Controller {
	if events == nil {
		events = event.NewNotifier()
	}

	c := &Controller{
		dict:          dict,
		provider:      provider,
		resolver:      resolve.New(),
		events:        events,
		history:       history.NewStack(cfg.HistoryLimit),
		scanner:       scanner.New(cfg.Prefix()),
		tokenAdvisory: cfg.TokenAdvisory,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.scanCue = debounce.New(cfg.Debounce(), c.debouncedScan)

	return c
}

// State returns the controller's current pipeline state.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Busy reports whether an expansion is in flight.
func (c *Controller) Busy() bool {
	return c.processing.Load()
}

// History returns the controller-owned undo stack.
func (c *Controller) History() *history.Stack {
	return c.history
}

// OnInput notes an input event on a surface and schedules a debounced
// scan. This is a scanning cue only; committing always happens
// synchronously through HandleKey.
func (c *Controller) OnInput(surf surface.Surface) {
	c.scanMu.Lock()
	c.scanSurface = surf
	c.scanMu.Unlock()

	c.scanCue.Call()
}

// debouncedScan runs the deferred scan and reports to the listener.
func (c *Controller) debouncedScan() {
	c.scanMu.Lock()
	surf := c.scanSurface
	fn := c.scanListener
	c.scanMu.Unlock()

	if surf == nil || fn == nil {
		return
	}

	match, ok := c.scanner.ScanSurface(surf)
	fn(match, ok)
}

// HandleKey processes one key on a surface. Commit keys scan undebounced
// and, when the cursor sits just after a known trigger, run the full
// expansion. The return value reports whether the host must suppress the
// literal key: true only when an expansion actually occurred — an
// unknown trigger leaves the typed text as-is and the key goes through.
func (c *Controller) HandleKey(ctx context.Context, surf surface.Surface, key Key) (bool, error) {
	if !key.IsCommit() {
		c.OnInput(surf)
		return false, nil
	}

	match, ok := c.scanner.ScanSurface(surf)
	if !ok {
		return false, nil
	}

	return c.Commit(ctx, surf, match)
}

// Commit runs the expansion pipeline for a scanned trigger. It returns
// true when the trigger expanded and the surface was spliced.
func (c *Controller) Commit(ctx context.Context, surf surface.Surface, match scanner.Match) (handled bool, err error) {
	if !c.processing.CompareAndSwap(false, true) {
		return false, ErrBusy
	}
	defer func() {
		c.state.Store(int32(StateIdle))
		c.processing.Store(false)
	}()

	c.state.Store(int32(StateScanning))

	snip, ok := c.dict.Lookup(match.Trigger)
	if !ok {
		// Syntactically valid trigger with no dictionary entry: leave
		// the typed text alone and let the key through.
		return false, nil
	}

	c.state.Store(int32(StateResolving))

	originalText := surf.PlainText()
	rc := c.provider.Snapshot(ctx)
	c.mergeScriptVariables(ctx, snip.Content, &rc)

	res, err := c.resolver.Resolve(ctx, snip.Content, rc)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrResolutionFailed, err)
	}

	c.state.Store(int32(StateWrapping))
	content := template.Apply(res.Text, c.dict.Templates())

	c.state.Store(int32(StateSplicing))
	if _, err := surf.Splice(match.Span.Start, match.Span.End, content); err != nil {
		if errors.Is(err, surface.ErrDetached) {
			c.advise(event.AdvisorySurfaceDetached, "expansion target disappeared")
		}
		return false, err
	}

	c.history.Push(history.NewRecord(surf, originalText, match.Trigger, match.Span, content))

	c.events.Publish(event.TopicExpansionCompleted, event.Usage{
		Trigger: match.Trigger,
		Domain:  rc.Domain,
		Tokens:  res.Tokens,
		Time:    time.Now(),
	})

	if res.Tokens > c.tokenAdvisory {
		c.advise(event.AdvisoryTokenBudget,
			fmt.Sprintf("expanded content is roughly %d tokens", res.Tokens))
	}

	return true, nil
}

// mergeScriptVariables evaluates scripted variables referenced by the
// snippet and merges them under any caller-supplied form data. Script
// failures degrade to empty strings inside the engine.
func (c *Controller) mergeScriptVariables(ctx context.Context, content string, rc *resolve.Context) {
	if c.scripts == nil {
		return
	}

	sources := c.dict.ScriptVariables()
	if len(sources) == 0 {
		return
	}

	values := c.scripts.EvalReferenced(ctx, content, sources, rc.Table(time.Now()))
	if len(values) == 0 {
		return
	}

	merged := make(map[string]string, len(values)+len(rc.FormData))
	for k, v := range values {
		merged[k] = v
	}
	for k, v := range rc.FormData {
		merged[k] = v
	}
	rc.FormData = merged
}

// Undo rolls back the most recent expansion on any surface. It is a pure
// text-state rollback: the surface's full text is replaced with the
// recorded original and the cursor returns to the record's end offset.
func (c *Controller) Undo(ctx context.Context) error {
	if !c.processing.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer func() {
		c.state.Store(int32(StateIdle))
		c.processing.Store(false)
	}()

	rec, err := c.history.Pop()
	if err != nil {
		c.advise(event.AdvisoryNothingToUndo, "nothing to undo")
		return err
	}

	if !rec.Surface.Attached() {
		c.advise(event.AdvisorySurfaceDetached, "undo target disappeared")
		return surface.ErrDetached
	}

	c.state.Store(int32(StateSplicing))

	if _, err := rec.Surface.Splice(0, rec.Surface.Len(), rec.OriginalText); err != nil {
		if errors.Is(err, surface.ErrDetached) {
			c.advise(event.AdvisorySurfaceDetached, "undo target disappeared")
		}
		return err
	}
	if err := rec.Surface.SetCursor(rec.Span.End); err != nil {
		return err
	}

	c.events.Publish(event.TopicExpansionUndone, event.Usage{
		Trigger: rec.Trigger,
		Time:    time.Now(),
	})

	return nil
}

// InsertForm splices a validated dynamic form into a surface at the span
// where the form trigger was detected. This path shares the surface
// contract but bypasses variable resolution and template wrapping.
func (c *Controller) InsertForm(ctx context.Context, surf surface.Surface, span surface.Span, f *form.Form) error {
	if !c.processing.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer func() {
		c.state.Store(int32(StateIdle))
		c.processing.Store(false)
	}()

	if err := f.Validate(); err != nil {
		return err
	}

	c.state.Store(int32(StateSplicing))

	originalText := surf.PlainText()
	content := f.Serialize()

	if _, err := surf.Splice(span.Start, span.End, content); err != nil {
		if errors.Is(err, surface.ErrDetached) {
			c.advise(event.AdvisorySurfaceDetached, "form target disappeared")
		}
		return err
	}

	c.history.Push(history.NewRecord(surf, originalText, "form", span, content))

	rc := c.provider.Snapshot(ctx)
	c.events.Publish(event.TopicExpansionCompleted, event.Usage{
		Trigger: "form",
		Domain:  rc.Domain,
		Tokens:  resolve.EstimateTokens(content),
		Time:    time.Now(),
	})

	return nil
}

// advise publishes a user-visible advisory message.
func (c *Controller) advise(kind event.AdvisoryKind, msg string) {
	c.events.Publish(event.TopicAdvisory, event.Advisory{Kind: kind, Message: msg})
}

// Close cancels any pending debounced scan.
func (c *Controller) Close() {
	c.scanCue.Cancel()
}
