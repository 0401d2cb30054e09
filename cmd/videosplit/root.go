// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package main

import (
	"github.com/spf13/cobra"

	"github.com/ZSC714725/videosplitter/internal/config"
	"github.com/ZSC714725/videosplitter/internal/ffmpeg"
	"github.com/ZSC714725/videosplitter/internal/logger"
)

type options struct {
	config  string
	ffmpeg  string
	verbose bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "videosplit",
		Short:         "Split media files with ffmpeg",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.config, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&opts.ffmpeg, "ffmpeg", "", "FFmpeg binary path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log every ffmpeg line")

	rootCmd.AddCommand(newSplitCommand(opts))
	rootCmd.AddCommand(newFilesCommand())

	return rootCmd
}

func (o *options) load() (*config.Config, error) {
	if o.config == "" {
		return config.Default(), nil
	}
	return config.Load(o.config)
}

func (o *options) ffmpegFor(cfg *config.Config) (ffmpeg.FFmpeg, error) {
	path := cfg.FFmpeg.Path
	if o.ffmpeg != "" {
		path = o.ffmpeg
	}
	validator, err := ffmpeg.NewValidator(cfg.Split.Allow, cfg.Split.Block)
	if err != nil {
		return nil, err
	}
	return ffmpeg.New(ffmpeg.Config{
		Binary:          path,
		MaxLogLines:     cfg.FFmpeg.LogLines,
		ValidatorSource: validator,
	})
}

func (o *options) logger(cfg *config.Config) logger.Logger {
	return logger.New("videosplit", cfg.Log.Debug || o.verbose)
}
