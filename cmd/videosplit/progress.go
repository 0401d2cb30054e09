// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/ZSC714725/videosplitter/internal/split"
)

// reporter renders split progress. On a terminal it draws a bar for the
// overall progress; otherwise it prints one line per segment.
type reporter struct {
	out      io.Writer
	scaleMax float64

	mu     sync.Mutex
	bar    *progressbar.ProgressBar
	last   split.FileProgress
	closed bool
}

func newReporter(out io.Writer, scaleMax float64) *reporter {
	r := &reporter{out: out, scaleMax: scaleMax}
	if isTerminal(out) {
		r.bar = progressbar.NewOptions64(int64(scaleMax),
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription("Splitting"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetRenderBlankState(true),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionShowElapsedTimeOnFinish(),
		)
	}
	return r
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (r *reporter) Callbacks() split.Callbacks {
	return split.Callbacks{
		OnFolder: r.folder,
		OnFile:   r.file,
		OnValue:  r.value,
		OnError:  r.fail,
	}
}

func (r *reporter) folder(folder string) {
	r.println("Writing to %s", folder)
}

func (r *reporter) file(p split.FileProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || p == r.last {
		return
	}
	r.last = p

	label := p.Label
	if label == "" {
		label = "done"
	}
	if r.bar != nil {
		r.bar.Describe(fmt.Sprintf("[%s] %s", p.Count(), label))
		return
	}
	fmt.Fprintf(r.out, "[%s] %s\n", p.Count(), label)
}

func (r *reporter) value(p split.ValueProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.bar == nil {
		return
	}
	_ = r.bar.Set64(int64(p.Overall))
}

func (r *reporter) fail(err error) {
	r.println("ffmpeg: %v", err)
}

func (r *reporter) println(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	if r.bar != nil {
		_ = r.bar.Clear()
	}
	fmt.Fprintf(r.out, format+"\n", args...)
}

// Close finishes the bar. Further updates are dropped.
func (r *reporter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	if r.bar != nil {
		_ = r.bar.Close()
		fmt.Fprintln(r.out)
	}
}
