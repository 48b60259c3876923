// Package workspace discovers and reads the analyzable documents under a
// root directory, and watches them for changes.
//
// Design goals:
//   - Deterministic output (paths sorted before reads)
//   - Skips what no one wants indexed: build output, backups, .gitignore
//     matches, configured excludes, oversized files
//   - Reads are parallel but bounded; decoding is best effort, never fatal
package workspace

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"asp-intel/internal/config"
	"asp-intel/internal/fileuri"
)

// Kind classifies a document by what the pipeline should do with it.
type Kind uint8

const (
	// KindScript is pure VBScript (.vbs).
	KindScript Kind = iota + 1
	// KindMarkup is markup-hosting ASP (.asp), parsed via the extractor.
	KindMarkup
	// KindInclude is an include file (.inc), parsed as pure script.
	KindInclude
)

func (k Kind) String() string {
	switch k {
	case KindScript:
		return "script"
	case KindMarkup:
		return "markup"
	case KindInclude:
		return "include"
	}
	return "unknown"
}

// KindForPath recognizes a path by extension, case-insensitively.
func KindForPath(path string) (Kind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".vbs":
		return KindScript, true
	case ".asp":
		return KindMarkup, true
	case ".inc":
		return KindInclude, true
	}
	return 0, false
}

// File is one discovered document with its content already read.
type File struct {
	Path    string
	URI     string
	Kind    Kind
	Content string
}

// Scanner walks a workspace root applying the ignore policy.
type Scanner struct {
	root       string
	ignoreDirs map[string]struct{}
	excludes   []string
	gitignore  *ignore.GitIgnore
	maxBytes   int64
	log        commonlog.Logger
}

// NewScanner builds a scanner for root with cfg's policy. A .gitignore at
// the root is honored when present.
func NewScanner(root string, cfg *config.Config) *Scanner {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	dirs := make(map[string]struct{}, len(cfg.IgnoreDirs))
	for _, d := range cfg.IgnoreDirs {
		dirs[d] = struct{}{}
	}
	gi, err := ignore.CompileIgnoreFile(filepath.Join(abs, ".gitignore"))
	if err != nil {
		gi = nil
	}
	return &Scanner{
		root:       abs,
		ignoreDirs: dirs,
		excludes:   cfg.Exclude,
		gitignore:  gi,
		maxBytes:   cfg.MaxFileBytes,
		log:        commonlog.GetLogger("asp-intel.scan"),
	}
}

// Root returns the absolute workspace root.
func (s *Scanner) Root() string { return s.root }

// Scan discovers every recognized document under the root and reads it.
// Unreadable files are logged and skipped; the scan itself only fails when
// the root cannot be walked at all.
func (s *Scanner) Scan() ([]File, error) {
	paths, err := s.discover()
	if err != nil {
		return nil, err
	}

	files := make([]File, len(paths))
	var g errgroup.Group
	g.SetLimit(8)
	for i, path := range paths {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				s.log.Warningf("skipping unreadable file %s: %s", path, err.Error())
				return nil
			}
			kind, _ := KindForPath(path)
			files[i] = File{
				Path: path,
				URI:  fileuri.FromPath(path),
				Kind: kind,
				// Legacy codepages produce invalid UTF-8; replace rather
				// than refuse to index.
				Content: strings.ToValidUTF8(string(data), "�"),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := files[:0]
	for _, f := range files {
		if f.Path != "" {
			out = append(out, f)
		}
	}
	return out, nil
}

func (s *Scanner) discover() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A vanished or unreadable entry should not kill the scan.
			s.log.Warningf("walk %s: %s", path, err.Error())
			return nil
		}
		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			rel = path
		}
		if d.IsDir() {
			if path == s.root {
				return nil
			}
			if s.skipDir(d.Name(), rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := KindForPath(path); !ok {
			return nil
		}
		if s.skipFile(rel) {
			return nil
		}
		if s.maxBytes > 0 {
			if info, err := d.Info(); err == nil && info.Size() > s.maxBytes {
				s.log.Infof("skipping oversized file %s (%d bytes)", rel, info.Size())
				return nil
			}
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *Scanner) skipDir(name, rel string) bool {
	if _, ok := s.ignoreDirs[name]; ok {
		return true
	}
	return s.skipFile(rel)
}

func (s *Scanner) skipFile(rel string) bool {
	rel = filepath.ToSlash(rel)
	if s.gitignore != nil && s.gitignore.MatchesPath(rel) {
		return true
	}
	for _, pattern := range s.excludes {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
