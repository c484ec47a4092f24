package fsusage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/moby/patternmatcher"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Usage is a point-in-time snapshot of disk consumption under one root.
type Usage struct {
	Files int64 `json:"files"`
	Dirs  int64 `json:"dirs"`
	Bytes int64 `json:"bytes"`
	// Tree is bytes per top-level directory
	Tree map[string]int64 `json:"tree,omitempty"`
}

// Sampler walks a directory tree and aggregates usage.
type Sampler struct {
	fs      afero.Fs
	root    string
	matcher *patternmatcher.PatternMatcher
}

// NewSampler prepares a sampler for root, with dockerignore-style
// ignore patterns excluded from the aggregate.
func NewSampler(fs afero.Fs, root string, ignore []string) (*Sampler, error) {
	var matcher *patternmatcher.PatternMatcher
	if len(ignore) > 0 {
		var err error
		matcher, err = patternmatcher.New(ignore)
		if err != nil {
			return nil, err
		}
	}
	return &Sampler{fs: fs, root: root, matcher: matcher}, nil
}

// Usage samples the tree once. Errors are returned to the caller, which
// is expected to substitute an empty record rather than fail the publish.
func (s *Sampler) Usage() (Usage, error) {
	usage := Usage{Tree: map[string]int64{}}
	err := afero.Walk(s.fs, s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		if s.matcher != nil {
			match, err := s.matcher.MatchesOrParentMatches(rel)
			if err != nil {
				return err
			}
			if match {
				zap.L().Debug("usage ignored", zap.String("path", rel))
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}
		if info.IsDir() {
			usage.Dirs++
			return nil
		}
		usage.Files++
		usage.Bytes += info.Size()
		top := rel
		if i := strings.IndexRune(rel, filepath.Separator); i != -1 {
			top = rel[:i]
		}
		usage.Tree[top] += info.Size()
		return nil
	})
	if err != nil {
		return Usage{}, err
	}
	return usage, nil
}
