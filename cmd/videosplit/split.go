// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZSC714725/videosplitter/internal/config"
	"github.com/ZSC714725/videosplitter/internal/ffmpeg/parse"
	"github.com/ZSC714725/videosplitter/internal/job"
	"github.com/ZSC714725/videosplitter/internal/split"
)

func newSplitCommand(opts *options) *cobra.Command {
	var (
		ranges   []string
		interval string
		duration string
		parts    int
		precise  bool
	)

	cmd := &cobra.Command{
		Use:   "split SOURCE",
		Short: "Split SOURCE into SOURCE_SplitVideos next to it",
		Long: "Split SOURCE into segments written to <stem>_SplitVideos next to it.\n" +
			"The destination folder is wiped first. Ctrl+C cancels and removes it.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := job.Request{Source: args[0], Parts: parts}

			var err error
			if req.Duration, err = optionalClock("duration", duration); err != nil {
				return err
			}
			if req.Interval, err = optionalClock("interval", interval); err != nil {
				return err
			}
			if req.Ranges, err = parseRanges(ranges); err != nil {
				return err
			}

			cfg, err := opts.load()
			if err != nil {
				return err
			}
			req.Precise = precise || cfg.Split.Precise

			return runSplit(cmd, opts, cfg, req)
		},
	}

	cmd.Flags().StringArrayVarP(&ranges, "range", "r", nil, "Range START-END to cut, e.g. 00:01:00-00:02:30 (repeatable)")
	cmd.Flags().StringVar(&interval, "interval", "", "Cut every INTERVAL, needs --duration")
	cmd.Flags().IntVar(&parts, "parts", 0, "Cut into N equal parts, needs --duration")
	cmd.Flags().StringVar(&duration, "duration", "", "Source duration, e.g. 01:30:00")
	cmd.Flags().BoolVar(&precise, "precise", false, "Re-encode so cuts land exactly on the given times")

	return cmd
}

func runSplit(cmd *cobra.Command, opts *options, cfg *config.Config, req job.Request) error {
	ranges, err := req.Plan()
	if err != nil {
		return err
	}

	ff, err := opts.ffmpegFor(cfg)
	if err != nil {
		return err
	}
	engine, err := split.NewEngine(ff, split.Config{
		ScaleMax: cfg.Split.ScaleMax,
		CRF:      cfg.Split.CRF,
		Logger:   opts.logger(cfg),
	})
	if err != nil {
		return err
	}
	defer engine.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	progress := newReporter(out, engine.ScaleMax())
	defer progress.Close()

	outcome, err := engine.Split(ctx, req.Source, ranges, req.Total(), req.Precise, progress.Callbacks())
	progress.Close()
	if err != nil {
		return err
	}

	switch outcome.Status {
	case split.Completed:
		fmt.Fprintf(out, "Done: %s\n", engine.Folder())
		return nil
	case split.Cancelled:
		fmt.Fprintln(out, "Cancelled, destination removed")
		return context.Canceled
	}
	return outcome.Err
}

func optionalClock(name, text string) (time.Duration, error) {
	if text == "" {
		return 0, nil
	}
	d, err := parse.ParseClock(text)
	if err != nil {
		return 0, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}

// parseRanges reads START-END pairs. Neither clock form contains '-', so the
// first dash separates the two.
func parseRanges(values []string) ([]split.TimeRange, error) {
	out := make([]split.TimeRange, 0, len(values))
	for _, v := range values {
		start, end, ok := strings.Cut(v, "-")
		if !ok {
			return nil, fmt.Errorf("--range %q: want START-END", v)
		}
		s, err := parse.ParseClock(start)
		if err != nil {
			return nil, fmt.Errorf("--range %q: %w", v, err)
		}
		e, err := parse.ParseClock(end)
		if err != nil {
			return nil, fmt.Errorf("--range %q: %w", v, err)
		}
		out = append(out, split.TimeRange{Start: s, End: e})
	}
	return out, nil
}

func newFilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "files SOURCE",
		Short: "List the segments produced for SOURCE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			folder, err := split.DestinationFolder(args[0])
			if err != nil {
				return err
			}
			files, err := split.ListFiles(folder)
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
}
