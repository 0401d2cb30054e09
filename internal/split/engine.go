// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具
//
// Package split cuts a media file into segments with ffmpeg and reports
// two-level progress while doing so.

package split

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ZSC714725/videosplitter/internal/ffmpeg"
	"github.com/ZSC714725/videosplitter/internal/ffmpeg/parse"
	"github.com/ZSC714725/videosplitter/internal/logger"
	"github.com/ZSC714725/videosplitter/internal/process"
)

// Status of a finished split
type Status int

const (
	Completed Status = iota
	Cancelled
	Failed
)

func (s Status) String() string {
	switch s {
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Outcome of one split call. Err is set for Failed.
type Outcome struct {
	Status Status
	Err    error
}

// Callbacks receive progress while a split runs. Progress callbacks are
// called from the process reader goroutine; none of them may block for long
// or call Cancel synchronously. Nil callbacks are skipped.
type Callbacks struct {
	OnFolder func(folder string)
	OnFile   func(FileProgress)
	OnValue  func(ValueProgress)
	// OnError surfaces a fatal ffmpeg diagnostic as soon as it is seen,
	// before the split returns Failed.
	OnError func(err error)
}

func (c Callbacks) folder(f string) {
	if c.OnFolder != nil {
		c.OnFolder(f)
	}
}

func (c Callbacks) file(p FileProgress) {
	if c.OnFile != nil {
		c.OnFile(p)
	}
}

func (c Callbacks) value(p ValueProgress) {
	if c.OnValue != nil {
		c.OnValue(p)
	}
}

func (c Callbacks) fail(err error) {
	if c.OnError != nil {
		c.OnError(err)
	}
}

// Config for an Engine
type Config struct {
	ScaleMax float64
	CRF      int
	Logger   logger.Logger
}

// Engine runs one split at a time against one ffmpeg binary. It can be
// reused for sequential splits.
type Engine struct {
	ffmpeg   ffmpeg.FFmpeg
	runner   *process.Runner
	logger   logger.Logger
	scaleMax float64
	crf      int

	lock      sync.Mutex
	active    bool
	cancelled bool
	// finishing is set once the last run succeeded; Cancel leaves the
	// output alone from then on.
	finishing bool
	folder    string
	parser    *parse.Parser
}

// NewEngine creates an Engine
func NewEngine(ff ffmpeg.FFmpeg, config Config) (*Engine, error) {
	if ff == nil {
		return nil, errors.New("no ffmpeg given")
	}
	e := &Engine{
		ffmpeg:   ff,
		logger:   config.Logger,
		scaleMax: config.ScaleMax,
		crf:      config.CRF,
	}
	if e.logger == nil {
		e.logger = logger.Nop()
	}
	if e.scaleMax <= 0 {
		e.scaleMax = DefaultScaleMax
	}
	if e.crf <= 0 {
		e.crf = ffmpeg.DefaultCRF
	}

	runner, err := ff.NewRunner(e.logger)
	if err != nil {
		return nil, err
	}
	e.runner = runner
	return e, nil
}

// ScaleMax is the value a complete progress is scaled to
func (e *Engine) ScaleMax() float64 {
	return e.scaleMax
}

// Split classifies ranges against the source duration and runs either a
// single segment muxer pass or one pass per range. Precise splits always go
// range by range since the segment muxer only copies streams.
func (e *Engine) Split(ctx context.Context, source string, ranges []TimeRange, total time.Duration, precise bool, cb Callbacks) (Outcome, error) {
	if err := Validate(ranges); err != nil {
		return Outcome{}, err
	}
	if !precise {
		if mode := Classify(ranges, total); mode.Kind == UniformInterval {
			e.logger.Info("%s: %d ranges form a uniform %s partition", source, len(ranges), mode.Interval)
			return e.IntervalSplit(ctx, source, mode.Interval, cb)
		}
	}
	return e.SpecificSplit(ctx, source, ranges, precise, cb)
}

// SpecificSplit cuts every range into its own file, one ffmpeg run each.
// A cancel is honoured between runs; a running cut is only stopped by the
// kill issued from Cancel.
func (e *Engine) SpecificSplit(ctx context.Context, source string, ranges []TimeRange, precise bool, cb Callbacks) (Outcome, error) {
	if err := Validate(ranges); err != nil {
		return Outcome{}, err
	}
	folder, release, err := e.begin(source, cb)
	if err != nil {
		return Outcome{}, err
	}
	defer release()

	total := TotalLength(ranges)
	n := len(ranges)
	var elapsed time.Duration

	for i, r := range ranges {
		cb.file(FileProgress{Completed: i, Total: n, Label: SegmentName(source, i)})

		args := ffmpeg.TrimArgs(ffmpeg.TrimOptions{
			Source:  source,
			Output:  filepath.Join(folder, SegmentName(source, i)),
			Start:   r.Start,
			Length:  r.Length(),
			Precise: precise,
			CRF:     e.crf,
		})

		segment, base := r.Length(), elapsed
		outcome, err := e.invoke(ctx, args, cb, func(ev parse.Event) {
			if ev.Kind == parse.Timestamp {
				cb.value(SpecificProgress(ev.Time, segment, base, total, e.scaleMax))
			}
		})
		if err != nil || outcome.Status != Completed {
			return outcome, err
		}
		elapsed += segment
	}

	if !e.seal() {
		e.rollback()
		return Outcome{Status: Cancelled}, nil
	}
	e.finish(n, cb)
	return Outcome{Status: Completed}, nil
}

// IntervalSplit lets the segment muxer cut the source every interval in a
// single ffmpeg run. Segment count and boundaries come from ffmpeg output.
func (e *Engine) IntervalSplit(ctx context.Context, source string, interval time.Duration, cb Callbacks) (Outcome, error) {
	if interval <= 0 {
		return Outcome{}, fmt.Errorf("%w: interval must be positive", ErrInvalidRanges)
	}
	folder, release, err := e.begin(source, cb)
	if err != nil {
		return Outcome{}, err
	}
	defer release()

	tracker := newIntervalTracker(interval, e.scaleMax)
	args := ffmpeg.SegmentArgs(source, filepath.Join(folder, segmentPattern(source)), interval)

	outcome, err := e.invoke(ctx, args, cb, func(ev parse.Event) {
		switch ev.Kind {
		case parse.Duration:
			n := tracker.SetDuration(ev.Time)
			cb.file(FileProgress{Completed: 0, Total: n, Label: SegmentName(source, 0)})
		case parse.SegmentBoundary:
			i := tracker.Marker()
			cb.file(FileProgress{Completed: i, Total: tracker.Segments(), Label: SegmentName(source, i)})
		case parse.Timestamp:
			if v, ok := tracker.Progress(ev.Time); ok {
				cb.value(v)
			}
		}
	})
	if err != nil || outcome.Status != Completed {
		return outcome, err
	}

	if !e.seal() {
		e.rollback()
		return Outcome{Status: Cancelled}, nil
	}
	e.finish(tracker.Segments(), cb)
	return Outcome{Status: Completed}, nil
}

// Cancel kills the running ffmpeg, if any, and removes the destination
// folder. When it returns no ffmpeg started by this engine is running.
// It is a no-op while no split is active or once the split is reporting
// completion.
func (e *Engine) Cancel() error {
	e.lock.Lock()
	if !e.active || e.finishing {
		e.lock.Unlock()
		return nil
	}
	e.cancelled = true
	folder := e.folder
	e.lock.Unlock()

	if err := e.runner.Kill(); err != nil {
		return err
	}
	e.removeFolder(folder)
	return nil
}

// Pause suspends the running ffmpeg. No-op when idle.
func (e *Engine) Pause() error {
	return e.runner.Pause()
}

// Resume thaws a paused ffmpeg. No-op when idle or not paused.
func (e *Engine) Resume() error {
	return e.runner.Resume()
}

// Paused reports whether the running ffmpeg is suspended
func (e *Engine) Paused() bool {
	return e.runner.Paused()
}

// Active reports whether a split is in flight
func (e *Engine) Active() bool {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.active
}

// Folder returns the destination folder of the current or last split
func (e *Engine) Folder() string {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.folder
}

// Log returns the ffmpeg lines retained for the current or last split
func (e *Engine) Log() []process.Line {
	e.lock.Lock()
	p := e.parser
	e.lock.Unlock()
	if p == nil {
		return nil
	}
	return p.Log()
}

// Usage returns CPU percent and resident memory of the running ffmpeg
func (e *Engine) Usage() (cpu float64, memory uint64) {
	return e.runner.Usage()
}

// Pid returns the pid of the running ffmpeg, or 0 between runs
func (e *Engine) Pid() int32 {
	return e.runner.Pid()
}

// Close cancels whatever is running
func (e *Engine) Close() error {
	return e.Cancel()
}

// begin marks the engine active, locks the source and recreates the
// destination folder.
func (e *Engine) begin(source string, cb Callbacks) (string, func(), error) {
	folder, err := DestinationFolder(source)
	if err != nil {
		return "", nil, err
	}
	if !e.ffmpeg.ValidateSource(source) {
		return "", nil, fmt.Errorf("%w: %s is not allowed", ErrInvalidPath, source)
	}

	e.lock.Lock()
	if e.active {
		e.lock.Unlock()
		return "", nil, ErrBusy
	}
	e.active = true
	e.cancelled = false
	e.finishing = false
	e.folder = folder
	e.parser = e.ffmpeg.NewParser()
	e.lock.Unlock()

	end := func() {
		e.lock.Lock()
		e.active = false
		e.lock.Unlock()
	}

	lock, err := acquireSourceLock(folder)
	if err != nil {
		end()
		return "", nil, err
	}

	if err := recreateFolder(folder); err != nil {
		lock.Release()
		end()
		return "", nil, err
	}
	e.logger.Info("splitting %s into %s", source, folder)
	cb.folder(folder)

	return folder, func() {
		if err := lock.Release(); err != nil {
			e.logger.Error("release lock for %s: %v", folder, err)
		}
		end()
	}, nil
}

// launch starts ffmpeg unless a cancel already came in. Holding the engine
// lock across the start makes sure Cancel either sees the new process or
// prevents it.
func (e *Engine) launch(args []string, sink process.Sink) (bool, error) {
	e.lock.Lock()
	defer e.lock.Unlock()
	if e.cancelled {
		return false, nil
	}
	if err := e.runner.Start(args, sink); err != nil {
		return false, err
	}
	return true, nil
}

// seal closes the split to Cancel before the terminal report. It returns
// false when a cancel already came in.
func (e *Engine) seal() bool {
	e.lock.Lock()
	defer e.lock.Unlock()
	if e.cancelled {
		return false
	}
	e.finishing = true
	return true
}

func (e *Engine) isCancelled() bool {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.cancelled
}

// invoke runs ffmpeg once. handle sees every non-fatal event; fatal events
// pause the process when storage is the problem, are surfaced through
// cb.OnError and end the run as Failed.
func (e *Engine) invoke(ctx context.Context, args []string, cb Callbacks, handle func(parse.Event)) (Outcome, error) {
	e.lock.Lock()
	parser := e.parser
	e.lock.Unlock()
	parser.ResetStats()

	waitCtx, stop := context.WithCancel(ctx)
	defer stop()

	var fatal fault
	sink := func(line string) {
		e.logger.Debug("%s", line)
		ev := parser.Parse(line)
		switch ev.Kind {
		case parse.None:
		case parse.Fatal:
			if !fatal.set(ev.Err) {
				return
			}
			if errors.Is(ev.Err, ErrDeviceFull) || errors.Is(ev.Err, ErrIO) {
				if err := e.runner.Pause(); err != nil {
					e.logger.Error("pause after %v: %v", ev.Err, err)
				}
			}
			cb.fail(ev.Err)
			stop()
		default:
			if fatal.get() == nil {
				handle(ev)
			}
		}
	}

	if ctx.Err() != nil {
		e.rollback()
		return Outcome{Status: Cancelled}, nil
	}

	started, err := e.launch(args, sink)
	if err != nil {
		e.rollback()
		return Outcome{}, err
	}
	if !started {
		e.rollback()
		return Outcome{Status: Cancelled}, nil
	}

	waitErr := e.runner.Wait(waitCtx)

	if errors.Is(waitErr, process.ErrKilled) || e.runner.Killed() || e.isCancelled() {
		e.rollback()
		return Outcome{Status: Cancelled}, nil
	}

	if err := fatal.get(); err != nil {
		if kerr := e.runner.Kill(); kerr != nil {
			e.logger.Error("kill after %v: %v", err, kerr)
		}
		e.rollback()
		e.logger.Error("split failed: %v", err)
		return Outcome{Status: Failed, Err: err}, nil
	}

	if ctx.Err() != nil {
		if err := e.Cancel(); err != nil {
			return Outcome{}, err
		}
		e.rollback()
		return Outcome{Status: Cancelled}, nil
	}

	if waitErr != nil {
		e.rollback()
		err := fmt.Errorf("%w: %v: %s", ErrProcessFailed, waitErr, parser.LastLine())
		e.logger.Error("split failed: %v", err)
		return Outcome{Status: Failed, Err: err}, nil
	}

	return Outcome{Status: Completed}, nil
}

func (e *Engine) finish(total int, cb Callbacks) {
	cb.file(FileProgress{Completed: total, Total: total})
	cb.value(completeProgress(e.scaleMax))
}

// rollback removes the destination folder of the current split
func (e *Engine) rollback() {
	e.removeFolder(e.Folder())
}

func (e *Engine) removeFolder(folder string) {
	if folder == "" {
		return
	}
	if err := os.RemoveAll(folder); err != nil {
		e.logger.Error("remove %s: %v", folder, err)
	}
}

// fault keeps the first fatal error seen by the sink
type fault struct {
	mu  sync.Mutex
	err error
}

func (f *fault) set(err error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false
	}
	f.err = err
	return true
}

func (f *fault) get() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
