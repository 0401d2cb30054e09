// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package parse

import (
	"container/ring"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/ZSC714725/videosplitter/internal/process"
)

// Kind of a parsed line
type Kind int

const (
	None Kind = iota
	Duration
	SegmentBoundary
	Timestamp
	Fatal
)

func (k Kind) String() string {
	switch k {
	case Duration:
		return "duration"
	case SegmentBoundary:
		return "segment"
	case Timestamp:
		return "timestamp"
	case Fatal:
		return "fatal"
	}
	return "none"
}

// Event is what a single stderr line means for the split.
// Time is the discovered duration for Duration events and the
// current output time for Timestamp events.
type Event struct {
	Kind Kind
	Time time.Duration
	Err  error
}

const (
	suffixNoSpace  = "No space left on device"
	suffixIOError  = "I/O error"
	suffixNoSuchFS = ": No such file or directory"

	prefixSegment = "[segment @"
	prefixFrame   = "frame"
)

// Config for the parser
type Config struct {
	LogLines int
}

// Parser classifies ffmpeg diagnostic lines. The only state carried between
// lines is whether the input duration was already seen; every non-blank line
// is also kept in a bounded log.
type Parser struct {
	re struct {
		duration *regexp.Regexp
		time     *regexp.Regexp
	}

	durationSeen bool

	log      *ring.Ring
	logLines int
	last     string
	lock     sync.RWMutex
}

// New creates a Parser
func New(config Config) *Parser {
	p := &Parser{
		logLines: config.LogLines,
	}
	if p.logLines <= 0 {
		p.logLines = 100
	}
	p.re.duration = regexp.MustCompile(`Duration:\s*([0-9]+:[0-9]{2}:[0-9]{2}(?:\.[0-9]+)?)`)
	p.re.time = regexp.MustCompile(`time=\s*([0-9]+:[0-9]{2}:[0-9]{2}(?:\.[0-9]+)?)`) // 支持 .0 .00 .000 等
	p.log = ring.New(p.logLines)
	return p
}

// Parse classifies one line. Fatal suffixes are checked before anything else
// so that a progress line ending in an error is reported as the error.
func (p *Parser) Parse(line string) Event {
	line = strings.TrimRight(line, " \t\r\n")
	if strings.TrimSpace(line) == "" {
		return Event{}
	}
	p.record(line)

	switch {
	case strings.HasSuffix(line, suffixNoSpace):
		return Event{Kind: Fatal, Err: fmt.Errorf("%w: %s", ErrDeviceFull, line)}
	case strings.HasSuffix(line, suffixIOError):
		return Event{Kind: Fatal, Err: fmt.Errorf("%w: %s", ErrIO, line)}
	case strings.HasSuffix(line, suffixNoSuchFS):
		return Event{Kind: Fatal, Err: &PathError{Path: strings.TrimSpace(line[:len(line)-len(suffixNoSuchFS)])}}
	}

	if !p.seen() {
		if m := p.re.duration.FindStringSubmatch(line); m != nil {
			if d, err := ParseClock(m[1]); err == nil {
				p.lock.Lock()
				p.durationSeen = true
				p.lock.Unlock()
				return Event{Kind: Duration, Time: d}
			}
		}
	}

	if strings.HasPrefix(line, prefixSegment) {
		return Event{Kind: SegmentBoundary}
	}

	if strings.HasPrefix(line, prefixFrame) {
		if m := p.re.time.FindStringSubmatch(line); m != nil {
			if t, err := ParseClock(m[1]); err == nil {
				return Event{Kind: Timestamp, Time: t}
			}
		}
	}

	return Event{}
}

func (p *Parser) seen() bool {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.durationSeen
}

func (p *Parser) record(line string) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.log.Value = process.Line{Timestamp: time.Now(), Data: line}
	p.log = p.log.Next()
	p.last = line
}

// ResetStats forgets the discovered duration, keeping the log
func (p *Parser) ResetStats() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.durationSeen = false
}

// Log returns the retained lines, oldest first
func (p *Parser) Log() []process.Line {
	var out []process.Line
	p.lock.RLock()
	p.log.Do(func(v interface{}) {
		if v != nil {
			out = append(out, v.(process.Line))
		}
	})
	p.lock.RUnlock()
	return out
}

// LastLine returns the most recent non-blank line
func (p *Parser) LastLine() string {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.last
}
