// Package engine is the geometry engine behind the converter. It reads
// exchange-format sub-models (see pkg/exchange) in a sandboxed zygomys
// environment, builds kernel solids for every instance and tessellates them
// into one shared vertex/index buffer.
//
// An Engine serves one open model at a time:
//
//	m, err := eng.OpenModel(data)
//	defer m.Close()
//	m.SetPostProcessing(true)
//	sp, err := m.InitializeModelling()
//	geom, err := m.FinalizeModelling(sp)
//	for _, inst := range m.Instances("IFCWALL") {
//		vp := inst.VisualisationProperties()
//		// triangles geom.Indices[vp.StartIndex : vp.StartIndex+3*vp.PrimitiveCount]
//	}
package engine

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/bim2city/pkg/kernel"
	zygo "github.com/glycerine/zygomys/zygo"
)

var (
	// ErrSessionBusy is returned by OpenModel while another model is open.
	ErrSessionBusy = errors.New("engine: a model is already open")
	// ErrClosed is returned by operations on a closed model.
	ErrClosed = errors.New("engine: model is closed")
	// ErrNotInitialized is returned by FinalizeModelling before
	// InitializeModelling succeeded.
	ErrNotInitialized = errors.New("engine: modelling not initialized")
)

// ParseError is a failure to read a sub-model, such as a syntax error or an
// unknown builtin.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("engine: parse: line %d: %s", e.Line, e.Message)
	}
	return "engine: parse: " + e.Message
}

// Option configures an Engine.
type Option func(*Engine)

// WithParseTimeout bounds the time spent reading one sub-model. Values <= 0
// keep DefaultParseTimeout.
func WithParseTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.parseTimeout = d
		}
	}
}

// Engine opens exchange-format models against a solid kernel.
// It is safe for concurrent use; at most one model is open at any time.
type Engine struct {
	kernel       kernel.Kernel
	parseTimeout time.Duration

	mu   sync.Mutex
	open *Model
}

// New creates an Engine that builds solids with k.
func New(k kernel.Kernel, opts ...Option) *Engine {
	e := &Engine{kernel: k, parseTimeout: DefaultParseTimeout}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ParseTimeout returns the configured parse timeout.
func (e *Engine) ParseTimeout() time.Duration { return e.parseTimeout }

// OpenModel reads a serialized sub-model. The returned model must be
// closed before the next OpenModel call succeeds.
func (e *Engine) OpenModel(data []byte) (*Model, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.open != nil {
		return nil, ErrSessionBusy
	}

	ch := make(chan parseResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- parseResult{err: fmt.Errorf("engine: panic during parse: %v", r)}
			}
		}()
		insts, err := parse(string(data))
		ch <- parseResult{instances: insts, err: err}
	}()

	insts, err := waitWithTimeout(ch, e.parseTimeout)
	if err != nil {
		return nil, err
	}

	m := &Model{engine: e, instances: insts}
	e.open = m
	return m, nil
}

func (e *Engine) release(m *Model) {
	e.mu.Lock()
	if e.open == m {
		e.open = nil
	}
	e.mu.Unlock()
}

// parse evaluates source in a fresh sandbox and returns the declared
// instances in declaration order.
func parse(source string) ([]*Instance, error) {
	if strings.TrimSpace(source) == "" {
		return nil, nil
	}

	// Sandbox mode keeps sub-models away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	r := &reader{ids: make(map[string]bool)}
	registerBuiltins(env, r)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err)
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err)
	}
	return r.instances, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into a ParseError, extracting
// the line number when the message carries one.
func parseZygomysError(err error) *ParseError {
	msg := err.Error()
	for _, p := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := p.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return &ParseError{Line: line, Message: strings.TrimSpace(m[2])}
		}
	}
	return &ParseError{Message: strings.TrimSpace(msg)}
}
