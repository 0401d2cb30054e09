// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// VideoSplitter - FFmpeg 视频分割工具

package split

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FolderSuffix is appended to the source stem to name the destination folder
const FolderSuffix = "_SplitVideos"

func checkSource(source string) error {
	if strings.TrimSpace(source) == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	base := filepath.Base(source)
	if base == "." || base == string(filepath.Separator) || base == ".." {
		return fmt.Errorf("%w: %q has no file name", ErrInvalidPath, source)
	}
	return nil
}

func stem(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DestinationFolder returns <dir of source>/<stem>_SplitVideos
func DestinationFolder(source string) (string, error) {
	if err := checkSource(source); err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(source), stem(source)+FolderSuffix), nil
}

// SegmentName is the file name of segment index, e.g. "movie003.mp4"
func SegmentName(source string, index int) string {
	return fmt.Sprintf("%s%03d%s", stem(source), index, filepath.Ext(source))
}

// segmentPattern is the segment muxer output name. A literal '%' in the
// stem is doubled so the muxer does not read it as a format verb.
func segmentPattern(source string) string {
	return strings.ReplaceAll(stem(source), "%", "%%") + "%03d" + filepath.Ext(source)
}

// recreateFolder wipes and recreates the destination folder. Anything
// previously inside it is lost.
func recreateFolder(folder string) error {
	if err := os.RemoveAll(folder); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove destination: %w", err)
	}
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	return nil
}

// ListFiles returns the files inside folder, sorted by name
func ListFiles(folder string) ([]string, error) {
	info, err := os.Stat(folder)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, folder)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, folder)
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		out = append(out, filepath.Join(folder, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}
