// Package rtlog constructs the structured logger shared by the transport
// and CLI layers. The protocol core (package roughtime and internal/wire)
// never imports this package: validation is silent and deterministic by
// design, and only the I/O around it is worth narrating.
package rtlog

import "go.uber.org/zap"

// New returns a zap.Logger configured for CLI use: human-readable console
// output, debug-level verbosity when debug is true.
func New(debug bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.DisableStacktrace = true
	return cfg.Build()
}
