// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package process

import "time"

// Sink receives process output one line at a time. It is called from a single
// reader goroutine, never concurrently with itself.
type Sink func(line string)

// Line is a timestamped log line
type Line struct {
	Timestamp time.Time
	Data      string
}
