// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package ffmpeg

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestValidator(t *testing.T) {
	tests := []struct {
		name  string
		allow []string
		block []string
		path  string
		want  bool
	}{
		{name: "no rules", path: "/media/a.mp4", want: true},
		{name: "empty path", path: "", want: false},
		{name: "blank path", path: "  ", want: false},
		{name: "allowed", allow: []string{`^/media/`}, path: "/media/a.mp4", want: true},
		{name: "not allowed", allow: []string{`^/media/`}, path: "/etc/passwd", want: false},
		{name: "blocked", block: []string{`\.tmp$`}, path: "/media/a.tmp", want: false},
		{name: "block wins over allow", allow: []string{`^/media/`}, block: []string{`private`}, path: "/media/private/a.mp4", want: false},
		{name: "blank expressions ignored", allow: []string{"", "  "}, path: "/any.mp4", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewValidator(tt.allow, tt.block)
			if err != nil {
				t.Fatalf("NewValidator: %v", err)
			}
			if got := v.IsValid(tt.path); got != tt.want {
				t.Errorf("IsValid(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestNewValidator_BadExpression(t *testing.T) {
	if _, err := NewValidator([]string{"("}, nil); err == nil {
		t.Error("expected error for invalid allow expression")
	}
	if _, err := NewValidator(nil, []string{"[a-"}); err == nil {
		t.Error("expected error for invalid block expression")
	}
}

func TestNew(t *testing.T) {
	if _, err := New(Config{Binary: filepath.Join(t.TempDir(), "missing-ffmpeg")}); err == nil {
		t.Error("expected error for a missing binary")
	}

	if runtime.GOOS == "windows" {
		t.Skip("needs an executable script")
	}
	bin := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	block, _ := NewValidator(nil, []string{`\.txt$`})
	ff, err := New(Config{Binary: bin, ValidatorSource: block})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if ff.Binary() != bin {
		t.Errorf("Binary() = %q, want %q", ff.Binary(), bin)
	}
	if ff.ValidateSource("notes.txt") || !ff.ValidateSource("movie.mp4") {
		t.Error("validator not applied")
	}
	if ff.NewParser() == nil {
		t.Error("NewParser() returned nil")
	}

	runner, err := ff.NewRunner(nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	if runner.Binary() != bin || runner.Pid() != 0 {
		t.Errorf("unexpected runner state: %q pid=%d", runner.Binary(), runner.Pid())
	}
}
