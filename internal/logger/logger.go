// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package logger

import "log"

// Logger provides a simple logging interface
type Logger interface {
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

type defaultLogger struct {
	prefix string
	debug  bool
}

// New returns a Logger writing through the standard log package.
// Debug lines are dropped unless verbose is set.
func New(prefix string, verbose bool) Logger {
	if prefix != "" {
		prefix += ": "
	}
	return &defaultLogger{prefix: prefix, debug: verbose}
}

// Nop discards everything
func Nop() Logger {
	return nopLogger{}
}

// With returns a logger whose lines carry an extra prefix, e.g. a job ID
func With(l Logger, prefix string) Logger {
	if l == nil {
		return Nop()
	}
	return &prefixed{parent: l, prefix: "[" + prefix + "] "}
}

func (l *defaultLogger) Info(format string, args ...interface{}) {
	log.Printf("[INFO] "+l.prefix+format, args...)
}

func (l *defaultLogger) Error(format string, args ...interface{}) {
	log.Printf("[ERROR] "+l.prefix+format, args...)
}

func (l *defaultLogger) Debug(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	log.Printf("[DEBUG] "+l.prefix+format, args...)
}

type prefixed struct {
	parent Logger
	prefix string
}

func (l *prefixed) Info(format string, args ...interface{}) {
	l.parent.Info(l.prefix+format, args...)
}

func (l *prefixed) Error(format string, args ...interface{}) {
	l.parent.Error(l.prefix+format, args...)
}

func (l *prefixed) Debug(format string, args ...interface{}) {
	l.parent.Debug(l.prefix+format, args...)
}

type nopLogger struct{}

func (nopLogger) Info(format string, args ...interface{})  {}
func (nopLogger) Error(format string, args ...interface{}) {}
func (nopLogger) Debug(format string, args ...interface{}) {}
