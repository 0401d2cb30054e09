// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package split

import (
	"fmt"
	"time"

	"github.com/ZSC714725/videosplitter/internal/ffmpeg/parse"
)

// TimeRange is a half-open span [Start, End) of the source
type TimeRange struct {
	Start time.Duration
	End   time.Duration
}

// Length of the range
func (r TimeRange) Length() time.Duration {
	return r.End - r.Start
}

func (r TimeRange) String() string {
	return parse.FormatClock(r.Start) + "-" + parse.FormatClock(r.End)
}

// ModeKind selects how a split is executed
type ModeKind int

const (
	// SpecificRanges runs ffmpeg once per range
	SpecificRanges ModeKind = iota
	// UniformInterval runs ffmpeg once with the segment muxer
	UniformInterval
)

func (k ModeKind) String() string {
	if k == UniformInterval {
		return "interval"
	}
	return "ranges"
}

// Mode is the result of Classify. Ranges is set for SpecificRanges,
// Interval for UniformInterval.
type Mode struct {
	Kind     ModeKind
	Ranges   []TimeRange
	Interval time.Duration
}

// Classify reports UniformInterval when ranges partition [0, total) into
// contiguous pieces of one length, the last one possibly shorter. Anything
// else needs one invocation per range.
func Classify(ranges []TimeRange, total time.Duration) Mode {
	specific := Mode{Kind: SpecificRanges, Ranges: ranges}
	if len(ranges) == 0 {
		return specific
	}

	first, last := ranges[0], ranges[len(ranges)-1]
	if first.Start != 0 || last.End != total {
		return specific
	}

	interval := first.Length()
	if interval <= 0 {
		return specific
	}

	prevEnd := first.Start
	for i, r := range ranges {
		if r.Start != prevEnd {
			return specific
		}
		length := r.Length()
		if length > interval || (length < interval && i != len(ranges)-1) {
			return specific
		}
		prevEnd = r.End
	}

	return Mode{Kind: UniformInterval, Interval: interval}
}

// Filter drops zero-length and inverted ranges
func Filter(ranges []TimeRange) []TimeRange {
	out := make([]TimeRange, 0, len(ranges))
	for _, r := range ranges {
		if r.End > r.Start {
			out = append(out, r)
		}
	}
	return out
}

// Validate checks that ranges are non-empty, ascending and non-overlapping
func Validate(ranges []TimeRange) error {
	if len(ranges) == 0 {
		return ErrInvalidRanges
	}
	var prevEnd time.Duration
	for i, r := range ranges {
		if r.Start < 0 || r.End <= r.Start {
			return fmt.Errorf("%w: range %d (%s) is empty", ErrInvalidRanges, i, r)
		}
		if i > 0 && r.Start < prevEnd {
			return fmt.Errorf("%w: range %d (%s) overlaps the previous one", ErrInvalidRanges, i, r)
		}
		prevEnd = r.End
	}
	return nil
}

// TotalLength sums the lengths of ranges
func TotalLength(ranges []TimeRange) time.Duration {
	var total time.Duration
	for _, r := range ranges {
		total += r.Length()
	}
	return total
}

// UniformRanges cuts [0, total) every interval; the last range holds the
// remainder.
func UniformRanges(total, interval time.Duration) []TimeRange {
	if total <= 0 || interval <= 0 {
		return nil
	}
	var out []TimeRange
	for start := time.Duration(0); start < total; start += interval {
		end := start + interval
		if end > total {
			end = total
		}
		out = append(out, TimeRange{Start: start, End: end})
	}
	return out
}

// PartsRanges cuts [0, total) into at most parts pieces of equal length.
// The length is rounded up to the millisecond so the pieces still classify
// as a uniform interval, which leaves the last piece slightly shorter.
func PartsRanges(total time.Duration, parts int) []TimeRange {
	if total <= 0 || parts <= 0 {
		return nil
	}
	interval := total / time.Duration(parts)
	if rem := interval % time.Millisecond; rem != 0 || interval == 0 {
		interval += time.Millisecond - rem
	}
	for interval*time.Duration(parts) < total {
		interval += time.Millisecond
	}
	return UniformRanges(total, interval)
}
