// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具
//
// Package process runs one external process at a time and streams its output.

package process

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"
)

var (
	// ErrBusy is returned by Start while a previous process is still alive.
	ErrBusy = errors.New("a process is already running")
	// ErrKilled is returned by Wait when the process was stopped by Kill.
	ErrKilled = errors.New("process killed")
)

// waitDelay bounds how long Wait keeps draining output after the process
// exited, in case a grandchild still holds the pipe open.
const waitDelay = 2 * time.Second

// Logger interface
type Logger interface {
	Info(format string, args ...interface{})
	Error(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

// Config for a Runner
type Config struct {
	Binary    string
	Logger    Logger
	Suspender Suspender
	Monitor   Monitor
}

// Runner owns at most one running process.
type Runner struct {
	binary    string
	logger    Logger
	suspender Suspender
	monitor   Monitor

	lock    sync.Mutex
	current *handle

	// killed is published only after the killed process has exited.
	killed atomic.Bool
}

type handle struct {
	cmd *exec.Cmd
	pid int32

	done chan struct{}
	err  error

	killing  atomic.Bool
	killDone chan struct{}

	// pending suspensions, guarded by Runner.lock
	paused int
}

func (h *handle) exited() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// New creates a Runner for the given binary
func New(config Config) (*Runner, error) {
	if len(config.Binary) == 0 {
		return nil, fmt.Errorf("no valid binary given")
	}

	r := &Runner{
		binary:    config.Binary,
		logger:    config.Logger,
		suspender: config.Suspender,
		monitor:   config.Monitor,
	}
	if r.logger == nil {
		r.logger = &nopLogger{}
	}
	if r.suspender == nil {
		r.suspender = NewSysSuspender()
	}
	if r.monitor == nil {
		r.monitor = NewNullMonitor()
	}
	return r, nil
}

// Binary returns the executable path
func (r *Runner) Binary() string {
	return r.binary
}

// Start spawns the binary with args. Standard output and standard error are
// merged and delivered line by line to sink. Start does not wait for the
// process; use Wait for that.
func (r *Runner) Start(args []string, sink Sink) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.current != nil {
		return ErrBusy
	}

	pr, pw := io.Pipe()
	cmd := exec.Command(r.binary, args...)
	cmd.Stdout = pw
	cmd.Stderr = pw
	cmd.WaitDelay = waitDelay

	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		return fmt.Errorf("start %s: %w", r.binary, err)
	}

	h := &handle{
		cmd:      cmd,
		pid:      int32(cmd.Process.Pid),
		done:     make(chan struct{}),
		killDone: make(chan struct{}),
	}
	r.killed.Store(false)
	r.current = h

	if err := r.monitor.Start(h.pid); err != nil {
		r.logger.Debug("monitor %d: %v", h.pid, err)
	}
	r.logger.Debug("started %s (pid %d) %v", r.binary, h.pid, args)

	go r.run(h, pr, pw, func(line string) {
		if r.killed.Load() || h.killing.Load() {
			return
		}
		if sink != nil {
			sink(line)
		}
	})

	return nil
}

func (r *Runner) run(h *handle, pr *io.PipeReader, pw *io.PipeWriter, sink Sink) {
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		reader(pr, sink)
	}()

	err := h.cmd.Wait()
	pw.Close()
	<-readDone

	h.err = err
	close(h.done)
	r.logger.Debug("pid %d exited: %v", h.pid, err)
}

func reader(rd io.Reader, sink Sink) {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	scanner.Split(scanLine)

	for scanner.Scan() {
		sink(scanner.Text())
	}

	// keep the writer side unblocked whatever happened to the scanner
	io.Copy(io.Discard, rd)
}

// Wait blocks until the running process exits or ctx is done. A process that
// exits on its own is released; the exit error is returned as is. If the
// process was stopped by Kill, Wait returns ErrKilled once Kill has finished.
// Without a running process Wait returns nil immediately.
func (r *Runner) Wait(ctx context.Context) error {
	h := r.active()
	if h == nil {
		return nil
	}

	select {
	case <-h.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if h.killing.Load() {
		<-h.killDone
		return ErrKilled
	}

	r.release(h)
	return h.err
}

// Kill terminates the running process and waits for it to exit before
// releasing it and publishing the killed flag. It is a no-op without a
// running process.
func (r *Runner) Kill() error {
	h := r.active()
	if h == nil {
		return nil
	}

	if !h.killing.CompareAndSwap(false, true) {
		// someone else is already killing it
		<-h.killDone
		return nil
	}

	if err := h.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		h.killing.Store(false)
		return fmt.Errorf("kill %d: %w", h.pid, err)
	}

	<-h.done
	r.killed.Store(true)
	r.release(h)
	close(h.killDone)

	r.logger.Debug("killed pid %d", h.pid)
	return nil
}

// Killed reports whether the last process was stopped by Kill
func (r *Runner) Killed() bool {
	return r.killed.Load()
}

// Pause suspends the running process. It is a no-op without one.
func (r *Runner) Pause() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	h := r.current
	if h == nil || h.exited() {
		return nil
	}
	if err := r.suspender.Suspend(h.pid); err != nil {
		return err
	}
	h.paused++
	return nil
}

// Resume undoes every Pause issued on the running process. It is a no-op
// if the process was never paused or has already exited.
func (r *Runner) Resume() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	h := r.current
	if h == nil || h.exited() || h.paused == 0 {
		return nil
	}
	if err := r.suspender.Resume(h.pid, h.paused); err != nil {
		return err
	}
	h.paused = 0
	return nil
}

// Paused reports whether the running process is suspended
func (r *Runner) Paused() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.current != nil && r.current.paused > 0
}

// Pid returns the pid of the running process, or 0
func (r *Runner) Pid() int32 {
	if h := r.active(); h != nil {
		return h.pid
	}
	return 0
}

// Usage returns CPU percent and resident memory of the running process
func (r *Runner) Usage() (cpu float64, memory uint64) {
	return r.monitor.Current()
}

func (r *Runner) active() *handle {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.current
}

func (r *Runner) release(h *handle) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.current == h {
		r.current = nil
		r.monitor.Stop()
	}
}

// scanLine splits on both '\r' and '\n' since ffmpeg rewrites its progress
// line with carriage returns.
func scanLine(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for start < len(data) {
		r, w := utf8.DecodeRune(data[start:])
		if r != '\n' && r != '\r' {
			break
		}
		start += w
	}

	for i := start; i < len(data); {
		r, w := utf8.DecodeRune(data[i:])
		if r == '\n' || r == '\r' {
			return i + w, data[start:i], nil
		}
		i += w
	}

	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}
	return start, nil, nil
}

type nopLogger struct{}

func (l *nopLogger) Info(format string, args ...interface{})  {}
func (l *nopLogger) Error(format string, args ...interface{}) {}
func (l *nopLogger) Debug(format string, args ...interface{}) {}
