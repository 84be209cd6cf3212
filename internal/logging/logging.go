package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/kotoba/internal/config"
)

// New builds a logger from cfg. Output goes to stderr when toStderr is
// set, otherwise to the configured log file so the TUI keeps the terminal.
func New(cfg config.Log, toStderr bool) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}

	if cfg.Level != "" {
		lvl, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}

	if toStderr {
		zc.OutputPaths = []string{"stderr"}
	} else {
		path, err := FilePath(cfg)
		if err != nil {
			return nil, err
		}
		zc.OutputPaths = []string{path}
	}
	zc.ErrorOutputPaths = zc.OutputPaths

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// FilePath resolves the log file, creating its directory.
func FilePath(cfg config.Log) (string, error) {
	path := cfg.File
	if path == "" {
		dir, err := config.StateDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(dir, "kotoba.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	return path, nil
}
