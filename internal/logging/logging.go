// Package logging builds the zap logger used for diagnostics. Diagnostics go
// to stderr so they never interleave with the report on stdout.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger at info level, or debug level with caller
// information when verbose is set.
func New(verbose bool) (*zap.Logger, error) {
	c := zap.NewDevelopmentConfig()
	c.OutputPaths = []string{"stderr"}
	c.ErrorOutputPaths = []string{"stderr"}
	c.DisableStacktrace = true
	c.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	c.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	c.DisableCaller = true
	if verbose {
		c.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		c.DisableCaller = false
	}
	return c.Build()
}
