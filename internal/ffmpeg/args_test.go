// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package ffmpeg

import (
	"strings"
	"testing"
	"time"
)

func TestTrimArgs(t *testing.T) {
	tests := []struct {
		name string
		opts TrimOptions
		want string
	}{
		{
			name: "stream copy",
			opts: TrimOptions{
				Source: "in.mp4",
				Output: "out/in000.mp4",
				Start:  90 * time.Second,
				Length: 30*time.Second + 500*time.Millisecond,
			},
			want: "-y -ss 00:01:30.000 -i in.mp4 -map 0 -to 00:00:30.500 -c copy -avoid_negative_ts make_zero out/in000.mp4",
		},
		{
			name: "re-encode",
			opts: TrimOptions{
				Source:  "in.mp4",
				Output:  "out/in001.mp4",
				Start:   0,
				Length:  10 * time.Second,
				Precise: true,
				CRF:     23,
			},
			want: "-y -ss 00:00:00.000 -i in.mp4 -map 0 -to 00:00:10.000 -c:v libx264 -crf 23 -preset medium -c:a aac -c:s copy out/in001.mp4",
		},
		{
			name: "re-encode with default quality",
			opts: TrimOptions{
				Source:  "in.mp4",
				Output:  "o.mp4",
				Length:  time.Second,
				Precise: true,
			},
			want: "-y -ss 00:00:00.000 -i in.mp4 -map 0 -to 00:00:01.000 -c:v libx264 -crf 18 -preset medium -c:a aac -c:s copy o.mp4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Join(TrimArgs(tt.opts), " ")
			if got != tt.want {
				t.Errorf("TrimArgs()\n got  %s\n want %s", got, tt.want)
			}
		})
	}
}

func TestTrimArgs_PathWithSpaces(t *testing.T) {
	args := TrimArgs(TrimOptions{Source: "my movie.mp4", Output: "out dir/my movie000.mp4", Length: time.Second})
	if args[4] != "my movie.mp4" {
		t.Errorf("source arg = %q", args[4])
	}
	if args[len(args)-1] != "out dir/my movie000.mp4" {
		t.Errorf("output arg = %q", args[len(args)-1])
	}
}

func TestSegmentArgs(t *testing.T) {
	got := strings.Join(SegmentArgs("in.mkv", "out/in%03d.mkv", 10*time.Minute), " ")
	want := "-y -i in.mkv -c copy -map 0 -segment_time 00:10:00.000 -f segment -reset_timestamps 1 out/in%03d.mkv"
	if got != want {
		t.Errorf("SegmentArgs()\n got  %s\n want %s", got, want)
	}
}
