// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package parse

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const (
	durationLine = "  Duration: 00:00:25.00, start: 0.000000, bitrate: 1205 kb/s"
	segmentLine  = "[segment @ 0x55d4c2a0e380] Opening '/tmp/movie_SplitVideos/movie001.mp4' for writing"
	frameLine    = "frame=  250 fps=0.0 q=-1.0 size=    2048kB time=00:00:10.00 bitrate=1677.7kbits/s speed=  20x"
)

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		name string
		line string
		kind Kind
		time time.Duration
		err  error
	}{
		{name: "duration", line: durationLine, kind: Duration, time: 25 * time.Second},
		{name: "segment marker", line: segmentLine, kind: SegmentBoundary},
		{name: "frame line", line: frameLine, kind: Timestamp, time: 10 * time.Second},
		{name: "frame line with padded time", line: "frame=1 fps=0 time= 00:00:01.5 bitrate=N/A", kind: Timestamp, time: 1500 * time.Millisecond},
		{name: "frame line without time", line: "frame=   10 fps=0.0 q=-1.0 size=N/A time=N/A", kind: None},
		{name: "size line without frame prefix", line: "size=    2048kB time=00:00:10.00 bitrate=1677.7kbits/s", kind: None},
		{name: "blank", line: "", kind: None},
		{name: "whitespace", line: " \t ", kind: None},
		{name: "unmatched", line: "Stream mapping:", kind: None},
		{name: "no space", line: "av_interleaved_write_frame(): No space left on device", kind: Fatal, err: ErrDeviceFull},
		{name: "io error", line: "Error writing trailer of out.mp4: I/O error", kind: Fatal, err: ErrIO},
		{name: "no such file", line: "/very/long/path/movie000.mp4: No such file or directory", kind: Fatal, err: ErrPathTooLong},
		{name: "fatal wins over frame", line: "frame=  250 time=00:00:10.00 No space left on device", kind: Fatal, err: ErrDeviceFull},
		{name: "trailing carriage return", line: frameLine + "\r", kind: Timestamp, time: 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(Config{})
			ev := p.Parse(tt.line)
			if ev.Kind != tt.kind {
				t.Fatalf("Parse(%q).Kind = %v, want %v", tt.line, ev.Kind, tt.kind)
			}
			if ev.Time != tt.time {
				t.Errorf("Parse(%q).Time = %v, want %v", tt.line, ev.Time, tt.time)
			}
			if tt.err != nil && !errors.Is(ev.Err, tt.err) {
				t.Errorf("Parse(%q).Err = %v, want %v", tt.line, ev.Err, tt.err)
			}
			if tt.err == nil && ev.Err != nil {
				t.Errorf("Parse(%q).Err = %v, want nil", tt.line, ev.Err)
			}
		})
	}
}

func TestParser_PathError(t *testing.T) {
	p := New(Config{})
	ev := p.Parse("/very/long/path/movie000.mp4: No such file or directory")

	var pathErr *PathError
	if !errors.As(ev.Err, &pathErr) {
		t.Fatalf("expected *PathError, got %T", ev.Err)
	}
	if pathErr.Path != "/very/long/path/movie000.mp4" {
		t.Errorf("Path = %q", pathErr.Path)
	}
	if !strings.Contains(pathErr.Error(), pathErr.Path) {
		t.Errorf("message %q does not name the path", pathErr.Error())
	}
}

func TestParser_DurationOnlyOnce(t *testing.T) {
	p := New(Config{})

	if ev := p.Parse(durationLine); ev.Kind != Duration {
		t.Fatalf("first duration: got %v", ev.Kind)
	}
	if ev := p.Parse("  Duration: 00:00:40.00, start: 0.000000"); ev.Kind != None {
		t.Errorf("second duration: got %v, want none", ev.Kind)
	}

	p.ResetStats()
	ev := p.Parse("  Duration: 00:00:40.00, start: 0.000000")
	if ev.Kind != Duration || ev.Time != 40*time.Second {
		t.Errorf("after reset: got %v %v", ev.Kind, ev.Time)
	}
}

func TestParser_Log(t *testing.T) {
	p := New(Config{LogLines: 2})

	p.Parse("first")
	p.Parse("")
	p.Parse("second")
	p.Parse("third")

	lines := p.Log()
	if len(lines) != 2 {
		t.Fatalf("Log() returned %d lines, want 2", len(lines))
	}
	if lines[0].Data != "second" || lines[1].Data != "third" {
		t.Errorf("Log() = %q, %q", lines[0].Data, lines[1].Data)
	}
	if p.LastLine() != "third" {
		t.Errorf("LastLine() = %q", p.LastLine())
	}
}

func TestKind_String(t *testing.T) {
	kinds := map[Kind]string{
		None:            "none",
		Duration:        "duration",
		SegmentBoundary: "segment",
		Timestamp:       "timestamp",
		Fatal:           "fatal",
	}
	for k, want := range kinds {
		if k.String() != want {
			t.Errorf("%d.String() = %q, want %q", k, k.String(), want)
		}
	}
}
