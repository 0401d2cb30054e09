// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package ffmpeg

import (
	"strconv"
	"time"

	"github.com/ZSC714725/videosplitter/internal/ffmpeg/parse"
)

// DefaultCRF is the x264 quality used when re-encoding
const DefaultCRF = 18

// TrimOptions describe one per-range invocation
type TrimOptions struct {
	Source string
	Output string
	Start  time.Duration
	Length time.Duration
	// Precise re-encodes so the cut lands exactly on Start instead of the
	// nearest keyframe.
	Precise bool
	CRF     int
}

// TrimArgs builds the arguments cutting [Start, Start+Length) out of Source.
// Seeking happens before the input, so -to is relative to Start.
func TrimArgs(o TrimOptions) []string {
	args := []string{
		"-y",
		"-ss", parse.FormatClock(o.Start),
		"-i", o.Source,
		"-map", "0",
		"-to", parse.FormatClock(o.Length),
	}

	if o.Precise {
		crf := o.CRF
		if crf <= 0 {
			crf = DefaultCRF
		}
		args = append(args,
			"-c:v", "libx264",
			"-crf", strconv.Itoa(crf),
			"-preset", "medium",
			"-c:a", "aac",
			"-c:s", "copy",
		)
	} else {
		args = append(args, "-c", "copy", "-avoid_negative_ts", "make_zero")
	}

	return append(args, o.Output)
}

// SegmentArgs builds the single invocation that lets the segment muxer cut
// Source every interval. pattern must contain a %03d style index.
func SegmentArgs(source, pattern string, interval time.Duration) []string {
	return []string{
		"-y",
		"-i", source,
		"-c", "copy",
		"-map", "0",
		"-segment_time", parse.FormatClock(interval),
		"-f", "segment",
		"-reset_timestamps", "1",
		pattern,
	}
}
