// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package split

import (
	"errors"

	"github.com/ZSC714725/videosplitter/internal/ffmpeg/parse"
)

var (
	ErrPathTooLong       = parse.ErrPathTooLong
	ErrDeviceFull        = parse.ErrDeviceFull
	ErrIO                = parse.ErrIO
	ErrDirectoryNotFound = errors.New("the specified folder path does not exist")
	ErrInvalidPath       = errors.New("invalid source path")
	ErrInvalidRanges     = errors.New("ranges must be non-empty, ascending and non-overlapping")
	ErrBusy              = errors.New("a split is already running on this engine")
	ErrSourceBusy        = errors.New("source is already being split")
	ErrProcessFailed     = errors.New("ffmpeg failed")
)
