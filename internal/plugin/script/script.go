// Package script evaluates Lua-scripted snippet variables.
//
// A dictionary may declare variables whose values are computed by a Lua
// chunk instead of stored text. The chunk runs sandboxed — no file,
// process, or loader access — with the ambient variable table exposed as
// a read-only `ctx` table, and must return the variable's value:
//
//	[variables.shout]
//	script = "return string.upper(ctx.selected_text)"
//
// Script failures never abort an expansion; the variable degrades to the
// empty string.
package script

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Errors returned by script evaluation.
var (
	ErrEngineClosed = errors.New("script engine closed")
	ErrNoResult     = errors.New("script returned no value")
)

// DefaultTimeout bounds one script evaluation.
const DefaultTimeout = 2 * time.Second

// Globals removed from every script state. These could be used to reach
// outside the sandbox.
var unsafeGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"os",
	"io",
	"debug",
}

// Engine evaluates scripted variables. Each evaluation runs in a fresh
// sandboxed Lua state; gopher-lua states are not goroutine-safe and a
// cancelled state cannot be reused, so states are never shared between
// evaluations.
type Engine struct {
	mu      sync.Mutex
	timeout time.Duration
	closed  bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout bounds each evaluation. Non-positive values keep the
// default.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewEngine creates a script engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Close shuts the engine down. Further evaluations fail.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
}

// Eval runs one script chunk and returns its result as a string. The
// ambient table is exposed to the chunk as the global `ctx`. A nil
// result maps to the empty string.
func (e *Engine) Eval(ctx context.Context, src string, ambient map[string]string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return "", ErrEngineClosed
	}

	evalCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	L := lua.NewState()
	defer L.Close()
	L.SetContext(evalCtx)
	sandbox(L)

	tbl := L.NewTable()
	for k, v := range ambient {
		L.SetField(tbl, k, lua.LString(v))
	}
	L.SetGlobal("ctx", tbl)

	fn, err := L.LoadString(src)
	if err != nil {
		return "", fmt.Errorf("compiling script: %w", err)
	}
	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		return "", fmt.Errorf("running script: %w", err)
	}

	ret := L.Get(-1)
	L.Pop(1)

	if ret == lua.LNil {
		return "", nil
	}
	return ret.String(), nil
}

// EvalReferenced evaluates every scripted variable that text actually
// references and returns the computed values. Failures degrade to the
// empty string for that variable; evaluation of the rest continues.
func (e *Engine) EvalReferenced(ctx context.Context, text string, sources, ambient map[string]string) map[string]string {
	if len(sources) == 0 {
		return nil
	}

	values := make(map[string]string)
	for name, src := range sources {
		if !strings.Contains(text, "{{"+name+"}}") {
			continue
		}

		value, err := e.Eval(ctx, src, ambient)
		if err != nil {
			value = ""
		}
		values[name] = value
	}

	return values
}

// sandbox strips globals that reach outside the interpreter.
func sandbox(L *lua.LState) {
	for _, name := range unsafeGlobals {
		L.SetGlobal(name, lua.LNil)
	}
}
