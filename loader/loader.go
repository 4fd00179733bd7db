package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/0xalexb/strata/access"
	"github.com/0xalexb/strata/tree"
)

// Loader reads YAML documents, applies environment overlays and caches the
// result. It implements access.ImportLoader.
type Loader struct {
	dir    string
	logger *slog.Logger
	cache  map[string]*tree.Node
	loaded []string
}

// Option configures a Loader.
type Option func(*Loader)

// WithDir sets the directory relative file names are resolved against.
// Default: the current working directory.
func WithDir(dir string) Option {
	return func(l *Loader) {
		l.dir = dir
	}
}

// WithLogger sets the logger for load diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// New creates a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		logger: slog.Default(),
		cache:  map[string]*tree.Node{},
	}

	for _, apply := range opts {
		apply(l)
	}

	return l
}

// Load reads the named document, merges its environment overlay if one
// exists, and returns the tree, marked as the root of the document. Results
// are cached per file and environment; repeated loads, e.g. the same file
// imported from several places, share one subtree.
func (l *Loader) Load(file, env string) (*tree.Node, error) {
	path := file
	if !filepath.IsAbs(path) && l.dir != "" {
		path = filepath.Join(l.dir, path)
	}

	key := path + "\x00" + env
	if node, ok := l.cache[key]; ok {
		return node, nil
	}

	node, err := l.loadFile(path)
	if err != nil {
		return nil, err
	}

	if env != "" {
		if err := l.applyOverlay(node, path, env); err != nil {
			return nil, err
		}
	}

	node.MarkFileRoot(filepath.Base(path))
	l.cache[key] = node

	return node, nil
}

// applyOverlay merges "<stem>-<env><ext>" over the base document, leaf by
// leaf. A missing overlay file is not an error.
func (l *Loader) applyOverlay(base *tree.Node, path, env string) error {
	overlayPath := overlayName(path, env)

	overlay, err := l.loadFile(overlayPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return err
	}

	if err := access.DeepUpdate(base, overlay); err != nil {
		return fmt.Errorf("cannot apply overlay %s: %w", overlayPath, err)
	}

	l.logger.Debug("applied environment overlay",
		slog.String("file", overlayPath), slog.String("env", env))

	return nil
}

func (l *Loader) loadFile(path string) (*tree.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot load config file: %w", err)
	}

	node, err := ParseYAML(data, filepath.Base(path))
	if err != nil {
		return nil, err
	}

	l.loaded = append(l.loaded, path)
	l.logger.Debug("loaded config file", slog.String("file", path))

	return node, nil
}

// Loaded returns the files read so far, in load order. Cache hits do not
// repeat.
func (l *Loader) Loaded() []string {
	files := make([]string, len(l.loaded))
	copy(files, l.loaded)

	return files
}

// overlayName derives the overlay file name for an environment:
// "config.yaml" and "dev" yield "config-dev.yaml".
func overlayName(path, env string) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)

	return stem + "-" + env + ext
}
