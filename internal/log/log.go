// Package log builds the zap logger used across oracled.
package log

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the level and encoding of the logger. Debug, Verbose and
// Quiet are the command line flags and win over Level.
type Options struct {
	Level   string
	Format  string
	Debug   bool
	Verbose bool
	Quiet   bool
}

func (o Options) level() (zapcore.Level, error) {
	switch {
	case o.Debug, o.Verbose:
		return zapcore.DebugLevel, nil
	case o.Quiet:
		return zapcore.ErrorLevel, nil
	case o.Level == "":
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(o.Level))); err != nil {
		return lvl, errors.Wrapf(err, "log level %q", o.Level)
	}
	return lvl, nil
}

// New builds a logger writing to stderr.
func New(opts Options) (*zap.Logger, error) {
	lvl, err := opts.level()
	if err != nil {
		return nil, err
	}

	var cfg zap.Config
	if strings.EqualFold(opts.Format, "json") {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.DisableStacktrace = true
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Development = opts.Debug

	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return logger.Named("oracled"), nil
}
