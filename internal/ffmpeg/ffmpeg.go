// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package ffmpeg

import (
	"fmt"
	"os/exec"

	"github.com/ZSC714725/videosplitter/internal/ffmpeg/parse"
	"github.com/ZSC714725/videosplitter/internal/logger"
	"github.com/ZSC714725/videosplitter/internal/process"
)

// FFmpeg hands out runners and parsers bound to one ffmpeg binary
type FFmpeg interface {
	NewRunner(log logger.Logger) (*process.Runner, error)
	NewParser() *parse.Parser
	ValidateSource(path string) bool
	Binary() string
}

// Config for FFmpeg
type Config struct {
	Binary          string
	MaxLogLines     int
	ValidatorSource Validator
	// Monitor enables CPU/memory sampling of running processes
	Monitor bool
}

type ffmpeg struct {
	binary    string
	validator Validator
	logLines  int
	monitor   bool
}

// New resolves the binary on PATH and creates an FFmpeg
func New(config Config) (FFmpeg, error) {
	binary, err := exec.LookPath(config.Binary)
	if err != nil {
		return nil, fmt.Errorf("invalid ffmpeg binary: %w", err)
	}

	f := &ffmpeg{
		binary:   binary,
		logLines: config.MaxLogLines,
		monitor:  config.Monitor,
	}

	if f.logLines <= 0 {
		f.logLines = 100
	}

	if config.ValidatorSource != nil {
		f.validator = config.ValidatorSource
	} else {
		f.validator, _ = NewValidator(nil, nil)
	}

	return f, nil
}

func (f *ffmpeg) NewRunner(log logger.Logger) (*process.Runner, error) {
	monitor := process.NewNullMonitor()
	if f.monitor {
		monitor = process.NewSysMonitor()
	}
	return process.New(process.Config{
		Binary:    f.binary,
		Logger:    wrapLogger(log),
		Suspender: process.NewSysSuspender(),
		Monitor:   monitor,
	})
}

func (f *ffmpeg) NewParser() *parse.Parser {
	return parse.New(parse.Config{LogLines: f.logLines})
}

func (f *ffmpeg) ValidateSource(path string) bool {
	return f.validator.IsValid(path)
}

func (f *ffmpeg) Binary() string {
	return f.binary
}

func wrapLogger(l logger.Logger) *loggerWrapper {
	return &loggerWrapper{logger: l, prefix: "ffmpeg: "}
}

type loggerWrapper struct {
	logger logger.Logger
	prefix string
}

func (w *loggerWrapper) Info(format string, args ...interface{}) {
	if w.logger != nil {
		w.logger.Info(w.prefix+format, args...)
	}
}

func (w *loggerWrapper) Error(format string, args ...interface{}) {
	if w.logger != nil {
		w.logger.Error(w.prefix+format, args...)
	}
}

func (w *loggerWrapper) Debug(format string, args ...interface{}) {
	if w.logger != nil {
		w.logger.Debug(w.prefix+format, args...)
	}
}
