// Package rlog defines the structured logging interface used throughout the
// runtime, spanning a level from Fatal down to Verbo so callers can dial
// scheduling diagnostics from silent to per-decision detail.
package rlog

import "go.uber.org/zap"

// Logger is the structured logging surface the runtime and its internal
// collaborators write diagnostic events to.
type Logger interface {
	// Fatal logs that a fatal error has occurred. The program should exit
	// soon after this is called.
	Fatal(msg string, fields ...zap.Field)
	// Error logs that an error has occurred that the runtime cannot recover
	// from on its own.
	Error(msg string, fields ...zap.Field)
	// Warn logs an event that may indicate a future error.
	Warn(msg string, fields ...zap.Field)
	// Info logs an event useful for observing overall runtime progress.
	Info(msg string, fields ...zap.Field)
	// Debug logs an event useful when debugging the runtime.
	Debug(msg string, fields ...zap.Field)
	// Trace logs an event useful for understanding execution ordering.
	Trace(msg string, fields ...zap.Field)
	// Verbo logs extremely detailed events, useful for inspecting every
	// scheduling decision the runtime makes.
	Verbo(msg string, fields ...zap.Field)
}

// Nop is a Logger that discards everything. It is the default used when a
// caller does not supply a Logger in Config.
type Nop struct{}

func (Nop) Fatal(string, ...zap.Field) {}
func (Nop) Error(string, ...zap.Field) {}
func (Nop) Warn(string, ...zap.Field)  {}
func (Nop) Info(string, ...zap.Field)  {}
func (Nop) Debug(string, ...zap.Field) {}
func (Nop) Trace(string, ...zap.Field) {}
func (Nop) Verbo(string, ...zap.Field) {}
