// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package split

import (
	"math"
	"testing"
	"time"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSpecificProgress(t *testing.T) {
	tests := []struct {
		name     string
		t        time.Duration
		segment  time.Duration
		elapsed  time.Duration
		total    time.Duration
		overall  float64
		fraction float64
	}{
		{name: "second of three", t: sec(5), segment: sec(10), elapsed: sec(10), total: sec(30), overall: 0.5, fraction: 0.5},
		{name: "start", t: 0, segment: sec(10), elapsed: 0, total: sec(30), overall: 0, fraction: 0},
		{name: "past the segment end", t: sec(12), segment: sec(10), elapsed: sec(20), total: sec(30), overall: 1, fraction: 1},
		{name: "negative time", t: -sec(1), segment: sec(10), elapsed: 0, total: sec(30), overall: 0, fraction: 0},
		{name: "zero length total", t: sec(1), segment: 0, elapsed: 0, total: 0, overall: 0, fraction: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := SpecificProgress(tt.t, tt.segment, tt.elapsed, tt.total, 1)
			if !near(v.Overall, tt.overall) {
				t.Errorf("Overall = %v, want %v", v.Overall, tt.overall)
			}
			if !near(v.Segment, tt.fraction) {
				t.Errorf("Segment = %v, want %v", v.Segment, tt.fraction)
			}
		})
	}
}

func TestSpecificProgress_Scaled(t *testing.T) {
	v := SpecificProgress(sec(5), sec(10), sec(10), sec(30), DefaultScaleMax)
	if !near(v.Overall, 500_000) || !near(v.Segment, 500_000) {
		t.Errorf("got %v/%v, want 500000/500000", v.Overall, v.Segment)
	}
	if v.SegmentText != "50 %" {
		t.Errorf("SegmentText = %q, want %q", v.SegmentText, "50 %")
	}
}

func TestSpecificProgress_Monotonic(t *testing.T) {
	const scaleMax = 1000
	prev := -1.0
	for ts := time.Duration(0); ts <= sec(12); ts += 100 * time.Millisecond {
		v := SpecificProgress(ts, sec(10), sec(10), sec(30), scaleMax)
		if v.Segment < prev {
			t.Fatalf("segment fraction went back at %v: %v < %v", ts, v.Segment, prev)
		}
		if v.Segment < 0 || v.Segment > scaleMax || v.Overall < 0 || v.Overall > scaleMax {
			t.Fatalf("out of range at %v: %+v", ts, v)
		}
		prev = v.Segment
	}
}

func TestIntervalTracker(t *testing.T) {
	tr := newIntervalTracker(sec(10), 1)

	if _, ok := tr.Progress(sec(1)); ok {
		t.Fatal("Progress should not be known before the duration")
	}
	if n := tr.SetDuration(sec(25)); n != 3 {
		t.Fatalf("SetDuration() = %d, want 3", n)
	}

	if i := tr.Marker(); i != 0 {
		t.Errorf("first marker opened segment %d, want 0", i)
	}
	if i := tr.Marker(); i != 1 {
		t.Errorf("second marker opened segment %d, want 1", i)
	}
	if i := tr.Marker(); i != 2 {
		t.Errorf("third marker opened segment %d, want 2", i)
	}
	if tr.completed != 2 {
		t.Fatalf("completed = %d, want 2", tr.completed)
	}

	// last segment is 25 - 2*10 = 5s long
	v, ok := tr.Progress(sec(22))
	if !ok {
		t.Fatal("Progress should be known")
	}
	if !near(v.Segment, 0.4) {
		t.Errorf("Segment = %v, want 0.4", v.Segment)
	}
	if !near(v.Overall, 0.88) {
		t.Errorf("Overall = %v, want 0.88", v.Overall)
	}
	if v.SegmentText != "40 %" {
		t.Errorf("SegmentText = %q", v.SegmentText)
	}
}

func TestIntervalTracker_NominalSegment(t *testing.T) {
	tr := newIntervalTracker(sec(10), 1)
	tr.SetDuration(sec(25))
	tr.Marker()

	v, _ := tr.Progress(sec(4))
	if !near(v.Segment, 0.4) || !near(v.Overall, 0.16) {
		t.Errorf("got %v/%v, want 0.4/0.16", v.Segment, v.Overall)
	}
}

func TestIntervalTracker_Monotonic(t *testing.T) {
	const scaleMax = 1000
	tr := newIntervalTracker(sec(10), scaleMax)
	tr.SetDuration(sec(25))
	tr.Marker()
	tr.Marker()
	tr.Marker()

	prev := -1.0
	for ts := sec(20); ts <= sec(26); ts += 50 * time.Millisecond {
		v, _ := tr.Progress(ts)
		if v.Segment < prev {
			t.Fatalf("segment fraction went back at %v", ts)
		}
		if v.Segment < 0 || v.Segment > scaleMax {
			t.Fatalf("segment fraction out of range at %v: %v", ts, v.Segment)
		}
		prev = v.Segment
	}
	if prev != scaleMax {
		t.Errorf("last segment ended at %v, want %v", prev, float64(scaleMax))
	}
}

func TestIntervalTracker_MoreSegmentsThanExpected(t *testing.T) {
	tr := newIntervalTracker(sec(10), 1)
	tr.SetDuration(sec(20))
	for i := 0; i < 3; i++ {
		tr.Marker()
	}
	if tr.Segments() != 3 {
		t.Errorf("Segments() = %d, want 3", tr.Segments())
	}
	if _, ok := tr.Progress(sec(20)); !ok {
		t.Error("Progress should be known")
	}
}

func TestPercentText(t *testing.T) {
	tests := []struct {
		f    float64
		want string
	}{
		{0, "0 %"},
		{0.4, "40 %"},
		{1.0 / 3, "33.33 %"},
		{2.0 / 3, "66.67 %"},
		{1, "100 %"},
	}
	for _, tt := range tests {
		if got := percentText(tt.f); got != tt.want {
			t.Errorf("percentText(%v) = %q, want %q", tt.f, got, tt.want)
		}
	}
}

func TestFileProgress_Count(t *testing.T) {
	if got := (FileProgress{Completed: 2, Total: 5}).Count(); got != "2/5" {
		t.Errorf("Count() = %q", got)
	}
}
