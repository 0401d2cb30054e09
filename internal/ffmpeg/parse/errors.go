// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package parse

import "errors"

var (
	ErrDeviceFull  = errors.New("no space left on device")
	ErrIO          = errors.New("i/o error")
	ErrPathTooLong = errors.New("destination path too long")
)

// PathError carries the path ffmpeg could not open.
type PathError struct {
	Path string
}

func (e *PathError) Error() string {
	return "the source file name is too long, shorten it so the destination path fits the OS limit: " + e.Path
}

func (e *PathError) Unwrap() error {
	return ErrPathTooLong
}
