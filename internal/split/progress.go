// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package split

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// DefaultScaleMax is the resolution progress values are scaled to
const DefaultScaleMax = 1_000_000

// FileProgress is the coarse per-segment progress
type FileProgress struct {
	Completed int
	Total     int
	Label     string
}

// Count renders "completed/total"
func (f FileProgress) Count() string {
	return fmt.Sprintf("%d/%d", f.Completed, f.Total)
}

// ValueProgress is the fine-grained, time based progress. Overall and
// Segment are within [0, scaleMax].
type ValueProgress struct {
	Overall     float64
	Segment     float64
	SegmentText string
}

func clamp01(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func ratio(a, b time.Duration) float64 {
	if b <= 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// percentText renders a fraction as a percentage rounded to two decimals
func percentText(fraction float64) string {
	pct := math.Round(fraction*10000) / 100
	return strconv.FormatFloat(pct, 'f', -1, 64) + " %"
}

func valueProgress(overall, segment, scaleMax float64) ValueProgress {
	overall, segment = clamp01(overall), clamp01(segment)
	return ValueProgress{
		Overall:     overall * scaleMax,
		Segment:     segment * scaleMax,
		SegmentText: percentText(segment),
	}
}

func completeProgress(scaleMax float64) ValueProgress {
	return valueProgress(1, 1, scaleMax)
}

// SpecificProgress computes progress while range i is being cut. t is the
// time reached inside the range, elapsed the summed length of the ranges
// already done.
func SpecificProgress(t, segment, elapsed, total time.Duration, scaleMax float64) ValueProgress {
	return valueProgress(ratio(elapsed+t, total), ratio(t, segment), scaleMax)
}

// intervalTracker follows a segment muxer run. Cut points are only known
// once ffmpeg announces them, so the segment index advances on markers.
type intervalTracker struct {
	interval time.Duration
	total    time.Duration
	segments int
	scaleMax float64

	opened    bool
	completed int
}

func newIntervalTracker(interval time.Duration, scaleMax float64) *intervalTracker {
	return &intervalTracker{interval: interval, scaleMax: scaleMax}
}

// SetDuration seeds the expected segment count from the input duration
func (t *intervalTracker) SetDuration(total time.Duration) int {
	t.total = total
	t.segments = int(math.Ceil(ratio(total, t.interval)))
	return t.segments
}

// Known reports whether the input duration was discovered
func (t *intervalTracker) Known() bool {
	return t.total > 0
}

// Marker handles a "[segment @" line and returns the index of the segment
// now being written. The first marker opens segment 0; each later one
// crosses a boundary.
func (t *intervalTracker) Marker() int {
	if !t.opened {
		t.opened = true
		return 0
	}
	t.Cross()
	return t.completed
}

// Cross records one finished segment
func (t *intervalTracker) Cross() {
	t.completed++
}

// Segments is the expected segment count, never less than the segments seen
func (t *intervalTracker) Segments() int {
	seen := t.completed
	if t.opened {
		seen++
	}
	if seen > t.segments {
		return seen
	}
	return t.segments
}

// currentLength is interval for every segment but the last, whose length is
// the remainder of the input.
func (t *intervalTracker) currentLength() time.Duration {
	if t.completed < t.segments-1 {
		return t.interval
	}
	if rest := t.total - time.Duration(t.completed)*t.interval; rest > 0 {
		return rest
	}
	return t.interval
}

// Progress at output time ts. ok is false until the duration is known.
func (t *intervalTracker) Progress(ts time.Duration) (v ValueProgress, ok bool) {
	if !t.Known() {
		return ValueProgress{}, false
	}
	offset := ts - time.Duration(t.completed)*t.interval
	return valueProgress(ratio(ts, t.total), ratio(offset, t.currentLength()), t.scaleMax), true
}
