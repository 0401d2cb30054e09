// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package process

import (
	"errors"
	"fmt"

	gopsutilprocess "github.com/shirou/gopsutil/v3/process"
)

// maxResumeAttempts bounds the resume loop for a process that keeps
// reporting the stopped state.
const maxResumeAttempts = 16

// Suspender freezes and thaws a whole process.
//
// The gopsutil implementation sends SIGSTOP/SIGCONT on POSIX systems and
// calls NtSuspendProcess/NtResumeProcess on Windows. A pid that no longer
// exists is not an error: both calls become no-ops.
type Suspender interface {
	Suspend(pid int32) error
	// Resume undoes pending suspensions. It keeps resuming until every
	// pending suspension is released and the process no longer reports
	// itself as stopped.
	Resume(pid int32, pending int) error
}

type sysSuspender struct{}

// NewSysSuspender returns the gopsutil backed Suspender
func NewSysSuspender() Suspender {
	return sysSuspender{}
}

func (sysSuspender) Suspend(pid int32) error {
	proc, err := gopsutilprocess.NewProcess(pid)
	if err != nil {
		if errors.Is(err, gopsutilprocess.ErrorProcessNotRunning) {
			return nil
		}
		return err
	}
	if err := proc.Suspend(); err != nil {
		return fmt.Errorf("suspend %d: %w", pid, err)
	}
	return nil
}

func (sysSuspender) Resume(pid int32, pending int) error {
	proc, err := gopsutilprocess.NewProcess(pid)
	if err != nil {
		if errors.Is(err, gopsutilprocess.ErrorProcessNotRunning) {
			return nil
		}
		return err
	}
	for i := 0; i < maxResumeAttempts; i++ {
		if i >= pending && !stopped(proc) {
			return nil
		}
		if err := proc.Resume(); err != nil {
			return fmt.Errorf("resume %d: %w", pid, err)
		}
	}
	return fmt.Errorf("resume %d: still stopped after %d attempts", pid, maxResumeAttempts)
}

// stopped reports false when the platform cannot tell (Windows), leaving the
// pending count as the only guide.
func stopped(proc *gopsutilprocess.Process) bool {
	states, err := proc.Status()
	if err != nil {
		return false
	}
	for _, s := range states {
		if s == gopsutilprocess.Stop {
			return true
		}
	}
	return false
}
