// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package job

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/ZSC714725/videosplitter/internal/ffmpeg"
	"github.com/ZSC714725/videosplitter/internal/logger"
	"github.com/ZSC714725/videosplitter/internal/process"
	"github.com/ZSC714725/videosplitter/internal/split"

	"github.com/lithammer/shortuuid/v4"
)

// State of a job as seen by the caller
type State string

const (
	BeforeOperation State = "before"
	DuringOperation State = "during"
	AfterOperation  State = "after"
)

// Job is one split of one source
type Job struct {
	ID        string
	Request   Request
	Ranges    []split.TimeRange
	Mode      split.ModeKind
	CreatedAt int64

	engine *split.Engine
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu        sync.RWMutex
	state     State
	updatedAt int64
	folder    string
	file      split.FileProgress
	value     split.ValueProgress
	outcome   string
	err       string
}

// Snapshot is an immutable copy of a job's progress
type Snapshot struct {
	ID        string
	Source    string
	Mode      split.ModeKind
	Ranges    []split.TimeRange
	State     State
	Paused    bool
	Pid       int32
	Folder    string
	File      split.FileProgress
	Value     split.ValueProgress
	ScaleMax  float64
	Outcome   string
	Error     string
	CPU       float64
	Memory    uint64
	CreatedAt int64
	UpdatedAt int64
}

// Snapshot copies the current progress
func (j *Job) Snapshot() Snapshot {
	cpu, memory := j.engine.Usage()
	paused := j.engine.Paused()
	pid := j.engine.Pid()

	j.mu.RLock()
	defer j.mu.RUnlock()
	return Snapshot{
		ID:        j.ID,
		Source:    j.Request.Source,
		Mode:      j.Mode,
		Ranges:    j.Ranges,
		State:     j.state,
		Paused:    paused,
		Pid:       pid,
		Folder:    j.folder,
		File:      j.file,
		Value:     j.value,
		ScaleMax:  j.engine.ScaleMax(),
		Outcome:   j.outcome,
		Error:     j.err,
		CPU:       cpu,
		Memory:    memory,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.updatedAt,
	}
}

// State returns the job state
func (j *Job) State() State {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.state
}

// Log returns the retained ffmpeg lines
func (j *Job) Log() []process.Line {
	return j.engine.Log()
}

// Files lists what the split produced so far
func (j *Job) Files() ([]string, error) {
	j.mu.RLock()
	folder := j.folder
	j.mu.RUnlock()
	if folder == "" {
		folder, _ = split.DestinationFolder(j.Request.Source)
	}
	return split.ListFiles(folder)
}

// Done is closed once the split returned
func (j *Job) Done() <-chan struct{} {
	return j.done
}

func (j *Job) update(fn func()) {
	j.mu.Lock()
	fn()
	j.updatedAt = time.Now().Unix()
	j.mu.Unlock()
}

func (j *Job) callbacks() split.Callbacks {
	return split.Callbacks{
		OnFolder: func(folder string) { j.update(func() { j.folder = folder }) },
		OnFile:   func(p split.FileProgress) { j.update(func() { j.file = p }) },
		OnValue:  func(p split.ValueProgress) { j.update(func() { j.value = p }) },
		OnError:  func(err error) { j.update(func() { j.err = err.Error() }) },
	}
}

func (j *Job) finish(outcome split.Outcome, err error) {
	j.update(func() {
		switch {
		case err != nil:
			j.state = BeforeOperation
			j.outcome = split.Failed.String()
			j.err = err.Error()
		case outcome.Status == split.Completed:
			j.state = AfterOperation
			j.outcome = outcome.Status.String()
		default:
			j.state = BeforeOperation
			j.outcome = outcome.Status.String()
			if outcome.Err != nil {
				j.err = outcome.Err.Error()
			}
		}
	})
}

// Store manages split jobs in memory
type Store interface {
	Add(req Request) (*Job, error)
	Get(id string) (*Job, error)
	List() []*Job
	Pause(id string) error
	Resume(id string) error
	Cancel(id string) error
	Delete(id string) error
}

type store struct {
	ffmpeg ffmpeg.FFmpeg
	logger logger.Logger
	config split.Config
	jobs   map[string]*Job
	mu     sync.RWMutex
}

// NewStore creates a job store. Every job gets its own engine built from
// config.
func NewStore(ff ffmpeg.FFmpeg, log logger.Logger, config split.Config) Store {
	if log == nil {
		log = logger.Nop()
	}
	return &store{
		ffmpeg: ff,
		logger: log,
		config: config,
		jobs:   make(map[string]*Job),
	}
}

func (s *store) Add(req Request) (*Job, error) {
	if !s.ffmpeg.ValidateSource(req.Source) {
		return nil, ErrInvalidSource
	}
	ranges, err := req.Plan()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	source := filepath.Clean(req.Source)
	for _, other := range s.jobs {
		if filepath.Clean(other.Request.Source) == source && other.State() == DuringOperation {
			return nil, ErrSourceBusy
		}
	}

	id := shortuuid.New()
	config := s.config
	config.Logger = logger.With(s.logger, id)
	engine, err := split.NewEngine(s.ffmpeg, config)
	if err != nil {
		return nil, err
	}

	mode := split.SpecificRanges
	if !req.Precise {
		mode = split.Classify(ranges, req.Total()).Kind
	}

	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now().Unix()
	j := &Job{
		ID:        id,
		Request:   req,
		Ranges:    ranges,
		Mode:      mode,
		CreatedAt: now,
		engine:    engine,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		state:     DuringOperation,
		updatedAt: now,
	}
	s.jobs[id] = j

	go s.run(j)

	s.logger.Info("job %s: %s, %d ranges, mode %s", id, req.Source, len(ranges), mode)
	return j, nil
}

func (s *store) run(j *Job) {
	defer close(j.done)
	defer j.cancel()
	outcome, err := j.engine.Split(j.ctx, j.Request.Source, j.Ranges, j.Request.Total(), j.Request.Precise, j.callbacks())
	j.finish(outcome, err)
	if err != nil {
		s.logger.Error("job %s: %v", j.ID, err)
		return
	}
	s.logger.Info("job %s %s", j.ID, outcome.Status)
}

func (s *store) Get(id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return j, nil
}

func (s *store) List() []*Job {
	s.mu.RLock()
	out := make([]*Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(a, b int) bool {
		if out[a].CreatedAt != out[b].CreatedAt {
			return out[a].CreatedAt < out[b].CreatedAt
		}
		return out[a].ID < out[b].ID
	})
	return out
}

func (s *store) running(id string) (*Job, error) {
	j, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if j.State() != DuringOperation {
		return nil, ErrNotRunning
	}
	return j, nil
}

func (s *store) Pause(id string) error {
	j, err := s.running(id)
	if err != nil {
		return err
	}
	return j.engine.Pause()
}

func (s *store) Resume(id string) error {
	j, err := s.running(id)
	if err != nil {
		return err
	}
	return j.engine.Resume()
}

// Cancel kills the job's ffmpeg and waits for the split to return
func (s *store) Cancel(id string) error {
	j, err := s.running(id)
	if err != nil {
		return err
	}
	return j.stop()
}

func (j *Job) stop() error {
	j.cancel()
	if err := j.engine.Cancel(); err != nil {
		return err
	}
	<-j.done
	return nil
}

func (s *store) Delete(id string) error {
	j, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := j.stop(); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.jobs, id)
	s.mu.Unlock()
	return nil
}
