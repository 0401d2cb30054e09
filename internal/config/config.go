// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	defaultBind     = ":8080"
	defaultFFmpeg   = "ffmpeg"
	defaultLogLines = 100
	defaultScaleMax = 1_000_000
	defaultCRF      = 18
)

// Config 应用配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`
	Split  SplitConfig  `yaml:"split"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig 服务配置
type ServerConfig struct {
	Bind string `yaml:"bind"`
}

// FFmpegConfig FFmpeg 配置
type FFmpegConfig struct {
	Path     string `yaml:"path"`
	LogLines int    `yaml:"log_lines"`
	Monitor  bool   `yaml:"monitor"`
}

// SplitConfig 分割配置
type SplitConfig struct {
	// ScaleMax is the value a complete progress bar is scaled to
	ScaleMax float64  `yaml:"scale_max"`
	CRF      int      `yaml:"crf"`
	Precise  bool     `yaml:"precise"`
	Allow    []string `yaml:"allow"`
	Block    []string `yaml:"block"`
}

// LogConfig 日志配置
type LogConfig struct {
	Debug bool `yaml:"debug"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{Bind: defaultBind},
		FFmpeg: FFmpegConfig{Path: defaultFFmpeg, LogLines: defaultLogLines, Monitor: true},
		Split:  SplitConfig{ScaleMax: defaultScaleMax, CRF: defaultCRF},
	}
}

// Load 从 YAML 文件加载配置. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// 填充空值
	cfg.fill()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) fill() {
	if c.Server.Bind == "" {
		c.Server.Bind = defaultBind
	}
	if c.FFmpeg.Path == "" {
		c.FFmpeg.Path = defaultFFmpeg
	}
	if c.FFmpeg.LogLines <= 0 {
		c.FFmpeg.LogLines = defaultLogLines
	}
	if c.Split.ScaleMax <= 0 {
		c.Split.ScaleMax = defaultScaleMax
	}
	if c.Split.CRF <= 0 {
		c.Split.CRF = defaultCRF
	}
}

// Validate rejects values ffmpeg would not accept
func (c *Config) Validate() error {
	if c.Split.CRF > 51 {
		return fmt.Errorf("split.crf must be within 0-51, got %d", c.Split.CRF)
	}
	return nil
}
