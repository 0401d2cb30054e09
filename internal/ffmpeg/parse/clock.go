// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package parse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseClock parses "HH:MM:SS.fff", "MM:SS.fff" or "SS.fff". Any number of
// fraction digits is accepted; digits past nanoseconds are dropped.
func ParseClock(text string) (time.Duration, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, fmt.Errorf("empty timestamp")
	}

	parts := strings.Split(text, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", text)
	}

	secs := parts[len(parts)-1]
	frac := ""
	if i := strings.IndexByte(secs, '.'); i >= 0 {
		secs, frac = secs[:i], secs[i+1:]
	}

	var d time.Duration
	units := []time.Duration{time.Second, time.Minute, time.Hour}
	fields := append(parts[:len(parts)-1:len(parts)-1], secs)
	for i := range fields {
		field := fields[len(fields)-1-i]
		n, err := strconv.ParseUint(field, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", text)
		}
		if i < len(fields)-1 && n >= 60 {
			return 0, fmt.Errorf("invalid timestamp %q", text)
		}
		d += time.Duration(n) * units[i]
	}

	if frac != "" {
		if len(frac) > 9 {
			frac = frac[:9]
		}
		n, err := strconv.ParseUint(frac, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", text)
		}
		for i := len(frac); i < 9; i++ {
			n *= 10
		}
		d += time.Duration(n)
	}

	return d, nil
}

// FormatClock renders d as HH:MM:SS.mmm. Hours are not wrapped at 24.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	h := ms / 3600000
	m := ms / 60000 % 60
	s := ms / 1000 % 60
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms%1000)
}
