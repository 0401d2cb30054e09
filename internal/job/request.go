// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package job

import (
	"time"

	"github.com/ZSC714725/videosplitter/internal/split"
)

// Request describes one split job. Exactly one of Ranges, Interval or
// Parts drives it; Interval and Parts need Duration.
type Request struct {
	Source   string
	Ranges   []split.TimeRange
	Duration time.Duration
	Interval time.Duration
	Parts    int
	Precise  bool
}

// Plan turns the request into the ranges handed to the engine. Zero-length
// ranges are dropped here so the engine never sees them.
func (r *Request) Plan() ([]split.TimeRange, error) {
	var ranges []split.TimeRange
	switch {
	case r.Interval > 0:
		if r.Duration <= 0 {
			return nil, ErrNoDuration
		}
		ranges = split.UniformRanges(r.Duration, r.Interval)
	case r.Parts > 0:
		if r.Duration <= 0 {
			return nil, ErrNoDuration
		}
		ranges = split.PartsRanges(r.Duration, r.Parts)
	default:
		ranges = split.Filter(r.Ranges)
	}

	if len(ranges) == 0 {
		return nil, ErrNoRanges
	}
	if err := split.Validate(ranges); err != nil {
		return nil, err
	}
	return ranges, nil
}

// Total is the source duration used to classify ranges. Without one the
// ranges are taken as they are.
func (r *Request) Total() time.Duration {
	if r.Duration > 0 {
		return r.Duration
	}
	return -1
}
