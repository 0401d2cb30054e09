// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ZSC714725/videosplitter/internal/split"
)

func TestParseRanges(t *testing.T) {
	tests := []struct {
		name    string
		values  []string
		want    []split.TimeRange
		wantErr bool
	}{
		{
			name:   "clock pairs",
			values: []string{"00:00:00-00:01:00", "00:02:00.5-00:03:00"},
			want: []split.TimeRange{
				{Start: 0, End: time.Minute},
				{Start: 2*time.Minute + 500*time.Millisecond, End: 3 * time.Minute},
			},
		},
		{
			name:   "seconds",
			values: []string{"5-10"},
			want:   []split.TimeRange{{Start: 5 * time.Second, End: 10 * time.Second}},
		},
		{name: "no dash", values: []string{"00:01:00"}, wantErr: true},
		{name: "bad start", values: []string{"x-10"}, wantErr: true},
		{name: "bad end", values: []string{"5-"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRanges(tt.values)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseRanges(%q) = %v, want error", tt.values, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseRanges(%q) unexpected error: %v", tt.values, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseRanges(%q) = %v", tt.values, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("range %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestOptionalClock(t *testing.T) {
	if d, err := optionalClock("duration", ""); err != nil || d != 0 {
		t.Errorf("empty: %v, %v", d, err)
	}
	if d, err := optionalClock("duration", "01:00:00"); err != nil || d != time.Hour {
		t.Errorf("hour: %v, %v", d, err)
	}
	if _, err := optionalClock("interval", "soon"); err == nil || !strings.Contains(err.Error(), "--interval") {
		t.Errorf("bad value: %v", err)
	}
}

func TestReporter_Plain(t *testing.T) {
	var out bytes.Buffer
	r := newReporter(&out, 100)
	cb := r.Callbacks()

	cb.OnFolder("/v/clip_SplitVideos")
	cb.OnFile(split.FileProgress{Completed: 0, Total: 2, Label: "clip000.mp4"})
	cb.OnFile(split.FileProgress{Completed: 0, Total: 2, Label: "clip000.mp4"})
	cb.OnValue(split.ValueProgress{Overall: 50})
	cb.OnFile(split.FileProgress{Completed: 2, Total: 2})
	r.Close()
	cb.OnFile(split.FileProgress{Completed: 9, Total: 9})

	want := "Writing to /v/clip_SplitVideos\n[0/2] clip000.mp4\n[2/2] done\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCommand()
	for _, name := range []string{"split", "files"} {
		if sub, _, err := cmd.Find([]string{name}); err != nil || sub.Name() != name {
			t.Errorf("subcommand %q not registered: %v", name, err)
		}
	}
}
