// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ZSC714725/videosplitter/internal/ffmpeg/parse"
	"github.com/ZSC714725/videosplitter/internal/job"
	"github.com/ZSC714725/videosplitter/internal/split"
)

// Handler holds dependencies
type Handler struct {
	store   job.Store
	precise bool
}

// NewHandler creates API handler. precise is used when a request does not
// say whether to re-encode.
func NewHandler(store job.Store, precise bool) *Handler {
	return &Handler{store: store, precise: precise}
}

// Register mounts the routes on group
func (h *Handler) Register(group *gin.RouterGroup) {
	group.GET("/split", h.ListJobs)
	group.POST("/split", h.AddJob)
	group.GET("/split/:id", h.GetJob)
	group.DELETE("/split/:id", h.DeleteJob)
	group.GET("/split/:id/report", h.GetReport)
	group.GET("/split/:id/files", h.GetFiles)
	group.PUT("/split/:id/command", h.Command)
}

func errResp(c *gin.Context, code int, msg, detail string) {
	c.JSON(code, ErrorResponse{Code: code, Message: msg, Detail: detail})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, job.ErrNotFound), errors.Is(err, split.ErrDirectoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, job.ErrSourceBusy), errors.Is(err, split.ErrSourceBusy),
		errors.Is(err, job.ErrNotRunning), errors.Is(err, split.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, job.ErrInvalidSource), errors.Is(err, job.ErrNoRanges),
		errors.Is(err, job.ErrNoDuration), errors.Is(err, split.ErrInvalidRanges),
		errors.Is(err, split.ErrInvalidPath):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// AddJob POST /api/v1/split
func (h *Handler) AddJob(c *gin.Context) {
	var req SplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errResp(c, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	r, err := h.requestToJob(&req)
	if err != nil {
		errResp(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	j, err := h.store.Add(r)
	if err != nil {
		errResp(c, statusOf(err), "Cannot start split", err.Error())
		return
	}

	c.JSON(http.StatusOK, jobToAPI(j.Snapshot()))
}

// ListJobs GET /api/v1/split
func (h *Handler) ListJobs(c *gin.Context) {
	jobs := h.store.List()
	out := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, jobToAPI(j.Snapshot()))
	}
	c.JSON(http.StatusOK, out)
}

// GetJob GET /api/v1/split/:id
func (h *Handler) GetJob(c *gin.Context) {
	j, err := h.store.Get(c.Param("id"))
	if err != nil {
		errResp(c, http.StatusNotFound, "Unknown job ID", err.Error())
		return
	}
	c.JSON(http.StatusOK, jobToAPI(j.Snapshot()))
}

// DeleteJob DELETE /api/v1/split/:id cancels a running split and forgets it
func (h *Handler) DeleteJob(c *gin.Context) {
	if err := h.store.Delete(c.Param("id")); err != nil {
		errResp(c, statusOf(err), "Delete failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, "OK")
}

// GetReport GET /api/v1/split/:id/report
func (h *Handler) GetReport(c *gin.Context) {
	j, err := h.store.Get(c.Param("id"))
	if err != nil {
		errResp(c, http.StatusNotFound, "Unknown job ID", err.Error())
		return
	}

	lines := j.Log()
	report := JobReport{Log: make([][2]string, len(lines))}
	for i, line := range lines {
		report.Log[i] = [2]string{
			line.Timestamp.Format("2006-01-02 15:04:05.000"),
			line.Data,
		}
	}
	c.JSON(http.StatusOK, report)
}

// GetFiles GET /api/v1/split/:id/files
func (h *Handler) GetFiles(c *gin.Context) {
	j, err := h.store.Get(c.Param("id"))
	if err != nil {
		errResp(c, http.StatusNotFound, "Unknown job ID", err.Error())
		return
	}

	files, err := j.Files()
	if err != nil {
		errResp(c, statusOf(err), "Cannot list files", err.Error())
		return
	}
	c.JSON(http.StatusOK, JobFiles{Folder: j.Snapshot().Folder, Files: files})
}

// Command PUT /api/v1/split/:id/command
func (h *Handler) Command(c *gin.Context) {
	id := c.Param("id")

	var req CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errResp(c, http.StatusBadRequest, "Invalid JSON", err.Error())
		return
	}

	var err error
	switch req.Command {
	case "pause":
		err = h.store.Pause(id)
	case "resume":
		err = h.store.Resume(id)
	case "cancel":
		err = h.store.Cancel(id)
	default:
		errResp(c, http.StatusBadRequest, "Unknown command", "Known: pause, resume, cancel")
		return
	}

	if err != nil {
		errResp(c, statusOf(err), "Command failed", err.Error())
		return
	}

	c.JSON(http.StatusOK, "OK")
}

func parseOptionalClock(name, text string) (time.Duration, error) {
	if text == "" {
		return 0, nil
	}
	d, err := parse.ParseClock(text)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

func (h *Handler) requestToJob(req *SplitRequest) (job.Request, error) {
	r := job.Request{
		Source:  req.Source,
		Parts:   req.Parts,
		Precise: h.precise,
	}
	if req.Precise != nil {
		r.Precise = *req.Precise
	}

	var err error
	if r.Duration, err = parseOptionalClock("duration", req.Duration); err != nil {
		return r, err
	}
	if r.Interval, err = parseOptionalClock("interval", req.Interval); err != nil {
		return r, err
	}

	for i, rg := range req.Ranges {
		start, err := parse.ParseClock(rg.Start)
		if err != nil {
			return r, fmt.Errorf("ranges[%d].start: %w", i, err)
		}
		end, err := parse.ParseClock(rg.End)
		if err != nil {
			return r, fmt.Errorf("ranges[%d].end: %w", i, err)
		}
		r.Ranges = append(r.Ranges, split.TimeRange{Start: start, End: end})
	}

	return r, nil
}

func jobToAPI(s job.Snapshot) Job {
	out := Job{
		ID:     s.ID,
		Source: s.Source,
		Mode:   s.Mode.String(),
		State:  string(s.State),
		Paused: s.Paused,
		Pid:    s.Pid,
		Folder: s.Folder,
		File: FileProgress{
			Completed: s.File.Completed,
			Total:     s.File.Total,
			Count:     s.File.Count(),
			Label:     s.File.Label,
		},
		Value: ValueProgress{
			Overall:     s.Value.Overall,
			Segment:     s.Value.Segment,
			SegmentText: s.Value.SegmentText,
			ScaleMax:    s.ScaleMax,
		},
		Outcome:   s.Outcome,
		Error:     s.Error,
		CPU:       s.CPU,
		Memory:    s.Memory,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	out.Ranges = make([]Range, len(s.Ranges))
	for i, r := range s.Ranges {
		out.Ranges[i] = Range{Start: parse.FormatClock(r.Start), End: parse.FormatClock(r.End)}
	}
	return out
}
