// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package main

import (
	"flag"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ZSC714725/videosplitter/internal/api"
	"github.com/ZSC714725/videosplitter/internal/config"
	"github.com/ZSC714725/videosplitter/internal/ffmpeg"
	"github.com/ZSC714725/videosplitter/internal/job"
	"github.com/ZSC714725/videosplitter/internal/logger"
	"github.com/ZSC714725/videosplitter/internal/split"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	bind := flag.String("bind", "", "Bind address (overrides config)")
	ffmpegBin := flag.String("ffmpeg", "", "FFmpeg binary path (overrides config)")
	debug := flag.Bool("debug", false, "Log every ffmpeg line")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Load config: %v", err)
		}
	}

	bindAddr := cfg.Server.Bind
	if *bind != "" {
		bindAddr = *bind
	}
	ffmpegPath := cfg.FFmpeg.Path
	if *ffmpegBin != "" {
		ffmpegPath = *ffmpegBin
	}

	logger := logger.New("videosplitter", cfg.Log.Debug || *debug)

	validator, err := ffmpeg.NewValidator(cfg.Split.Allow, cfg.Split.Block)
	if err != nil {
		log.Fatalf("Source validator: %v", err)
	}

	ff, err := ffmpeg.New(ffmpeg.Config{
		Binary:          ffmpegPath,
		MaxLogLines:     cfg.FFmpeg.LogLines,
		ValidatorSource: validator,
		Monitor:         cfg.FFmpeg.Monitor,
	})
	if err != nil {
		log.Fatalf("FFmpeg init: %v", err)
	}

	store := job.NewStore(ff, logger, split.Config{
		ScaleMax: cfg.Split.ScaleMax,
		CRF:      cfg.Split.CRF,
	})
	handler := api.NewHandler(store, cfg.Split.Precise)

	r := gin.Default()
	r.Use(gin.Recovery(), cors.Default())

	handler.Register(r.Group("/api/v1"))

	log.Printf("VideoSplitter listening on %s (ffmpeg: %s)", bindAddr, ff.Binary())
	if err := r.Run(bindAddr); err != nil {
		log.Fatalf("Server: %v", err)
	}
}
