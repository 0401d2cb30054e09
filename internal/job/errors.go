// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package job

import "errors"

var (
	ErrNotFound      = errors.New("job not found")
	ErrSourceBusy    = errors.New("source is already being split")
	ErrInvalidSource = errors.New("invalid source address")
	ErrNoRanges      = errors.New("need ranges, an interval or a part count")
	ErrNoDuration    = errors.New("duration is required")
	ErrNotRunning    = errors.New("job is not running")
)
