// Copyright © 2026 The Crisp authors

// Package session holds the state of one analysis run: the program model
// or IR module under analysis, its diagnostics engine, the mangler, the
// marshalling tables and the auxiliary records handed out to rules.
package session

import (
	"sync"

	"github.com/golang/glog"
	"github.com/google/uuid"

	"github.com/crisp-analysis/crisp/bridge"
	"github.com/crisp-analysis/crisp/cxxast"
	"github.com/crisp-analysis/crisp/diagnostic"
	"github.com/crisp-analysis/crisp/ir"
	"github.com/crisp-analysis/crisp/status"
)

// DefaultMangleCacheSize bounds the mangled name cache when Config leaves
// it unset.
const DefaultMangleCacheSize = 1024

// Config describes the compiler session a Session wraps.  Exactly one of
// AST and Module is normally set.
type Config struct {
	AST    *cxxast.ASTContext
	Module *ir.Module
	// Diagnostics receives findings.  A nil engine gets one that discards
	// them.
	Diagnostics     *diagnostic.Engine
	MangleCacheSize int
}

// Session is the live context of a run.  Its accessors are only valid
// between Begin and End.
type Session struct {
	ID uuid.UUID

	mu       sync.Mutex
	live     bool
	ast      *cxxast.ASTContext
	module   *ir.Module
	diags    *diagnostic.Engine
	mangler  *Mangler
	mainFile string
	tables   *bridge.Tables
	aux      []*ir.Location
	fatal    error

	auxConsumer  *diagnostic.TextConsumer
	prevConsumer diagnostic.Consumer
}

var (
	currentMu sync.Mutex
	current   *Session
)

// Begin makes a new live session from cfg.  A session still live is
// ended first, with a warning.
func Begin(cfg Config) *Session {
	currentMu.Lock()
	defer currentMu.Unlock()
	if current != nil && current.Live() {
		glog.Warningf("session %s: still live at begin, replacing it", current.ID)
		current.End()
	}
	diags := cfg.Diagnostics
	if diags == nil {
		diags = diagnostic.NewEngine(nil)
	}
	size := cfg.MangleCacheSize
	if size <= 0 {
		size = DefaultMangleCacheSize
	}
	s := &Session{
		ID:      uuid.New(),
		live:    true,
		ast:     cfg.AST,
		module:  cfg.Module,
		diags:   diags,
		mangler: NewMangler(size),
		tables:  bridge.NewTables(),
	}
	switch {
	case cfg.AST != nil && cfg.AST.SourceManager != nil:
		s.mainFile = cfg.AST.SourceManager.MainFileName()
	case cfg.Module != nil:
		s.mainFile = cfg.Module.Identifier
		if cfg.Module.Source != nil && cfg.Module.Source.MainFileName() != "" {
			s.mainFile = cfg.Module.Source.MainFileName()
		}
	}
	current = s
	glog.V(1).Infof("session %s: begin %q", s.ID, s.mainFile)
	return s
}

// Current returns the live session, or nil.
func Current() *Session {
	currentMu.Lock()
	defer currentMu.Unlock()
	if current == nil || !current.Live() {
		return nil
	}
	return current
}

// End tears the session down.  It restores the diagnostic consumer in
// place before the aux stream was opened, closes that stream, releases
// every auxiliary record and resets the handle tables.  Calling End again
// does nothing.
func (s *Session) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.live {
		return nil
	}
	s.live = false
	var err error
	if s.auxConsumer != nil {
		s.diags.SetConsumer(s.prevConsumer)
		err = s.auxConsumer.Finish()
		s.auxConsumer = nil
		s.prevConsumer = nil
	}
	s.tables.Reset()
	s.aux = nil
	glog.V(1).Infof("session %s: end", s.ID)
	return err
}

// Live reports whether End has not been called yet.
func (s *Session) Live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

func (s *Session) AST() *cxxast.ASTContext { return s.ast }

func (s *Session) Module() *ir.Module { return s.module }

func (s *Session) Diagnostics() *diagnostic.Engine { return s.diags }

func (s *Session) Mangler() *Mangler { return s.mangler }

// MainFile returns the name of the main source file of the session.
func (s *Session) MainFile() string { return s.mainFile }

// Tables returns the marshalling tables; Session is a bridge.Source.
func (s *Session) Tables() *bridge.Tables { return s.tables }

// NewLocation stores loc as an auxiliary record and returns its address,
// which stays valid until End.
func (s *Session) NewLocation(loc ir.Location) *ir.Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := new(ir.Location)
	*p = loc
	s.aux = append(s.aux, p)
	return p
}

// AuxRecords returns the number of auxiliary records held.
func (s *Session) AuxRecords() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.aux)
}

// AuxPath returns the name of the aux diagnostics stream.
func (s *Session) AuxPath() string {
	return s.mainFile + ".diags"
}

// UseAuxStream routes diagnostics to the aux stream from now until End.
// The stream is opened on first use.
func (s *Session) UseAuxStream() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.auxConsumer != nil {
		return nil
	}
	c, err := diagnostic.CreateTextFile(s.AuxPath())
	if err != nil {
		return status.Configf("open aux stream", status.ErrAuxStream, "%v", err)
	}
	s.auxConsumer = c
	s.prevConsumer = s.diags.SetConsumer(c)
	glog.V(1).Infof("session %s: diagnostics routed to %s", s.ID, s.AuxPath())
	return nil
}

// Abort records a configuration error raised inside a predicate.  The
// first one is kept; the driver turns it into the run status.
func (s *Session) Abort(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fatal == nil {
		s.fatal = err
	}
}

// Err returns the error recorded by Abort, or nil.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fatal
}
