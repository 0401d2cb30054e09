// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package api

// Range is a time span in HH:MM:SS.mmm form
type Range struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

// SplitRequest for POST /split. One of ranges, interval or parts is used;
// interval and parts need duration.
type SplitRequest struct {
	Source   string  `json:"source" binding:"required"`
	Ranges   []Range `json:"ranges"`
	Duration string  `json:"duration"`
	Interval string  `json:"interval"`
	Parts    int     `json:"parts"`
	Precise  *bool   `json:"precise"`
}

// FileProgress in API format
type FileProgress struct {
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Count     string `json:"count"`
	Label     string `json:"label"`
}

// ValueProgress in API format
type ValueProgress struct {
	Overall     float64 `json:"overall"`
	Segment     float64 `json:"segment"`
	SegmentText string  `json:"segment_text"`
	ScaleMax    float64 `json:"scale_max"`
}

// Job represents a split job in API responses
type Job struct {
	ID        string        `json:"id"`
	Source    string        `json:"source"`
	Mode      string        `json:"mode"`
	Ranges    []Range       `json:"ranges"`
	State     string        `json:"state"`
	Paused    bool          `json:"paused"`
	Pid       int32         `json:"pid,omitempty"`
	Folder    string        `json:"folder"`
	File      FileProgress  `json:"file"`
	Value     ValueProgress `json:"value"`
	Outcome   string        `json:"outcome,omitempty"`
	Error     string        `json:"error,omitempty"`
	CPU       float64       `json:"cpu_usage"`
	Memory    uint64        `json:"memory_bytes"`
	CreatedAt int64         `json:"created_at"`
	UpdatedAt int64         `json:"updated_at"`
}

// JobReport holds retained ffmpeg lines
type JobReport struct {
	Log [][2]string `json:"log"`
}

// JobFiles lists produced files
type JobFiles struct {
	Folder string   `json:"folder"`
	Files  []string `json:"files"`
}

// CommandRequest for pause/resume/cancel
type CommandRequest struct {
	Command string `json:"command" binding:"required"`
}

// ErrorResponse for API errors
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}
