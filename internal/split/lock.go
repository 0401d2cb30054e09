// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package split

import (
	"fmt"

	"github.com/gofrs/flock"
)

// sourceLock keeps two splits, in this or another process, from writing the
// same destination folder at once.
type sourceLock struct {
	lock *flock.Flock
}

func lockPath(folder string) string {
	return folder + ".lock"
}

func acquireSourceLock(folder string) (*sourceLock, error) {
	lock := flock.New(lockPath(folder))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", lock.Path(), err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrSourceBusy, folder)
	}
	return &sourceLock{lock: lock}, nil
}

// Release unlocks. The lock file stays: removing it would let a waiter
// holding the old inode and a newcomer on a fresh file both win.
func (l *sourceLock) Release() error {
	if l == nil {
		return nil
	}
	return l.lock.Unlock()
}
