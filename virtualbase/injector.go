// Package virtualbase loads robot descriptions that may lack a planar virtual base. When the
// x, y and theta joints are missing, the description is patched with urdf.VirtualBaseFragment,
// written as a transient file next to the original, loaded, and the transient file is removed.
package virtualbase

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"go.viam.com/robotbuilder/logging"
	"go.viam.com/robotbuilder/urdf"
)

// DefaultTransientPrefix starts the name of every transient description file.
const DefaultTransientPrefix = "virtual_base_"

// ErrStorage is returned when a transient description cannot be written.
var ErrStorage = errors.New("cannot store transient robot description")

// Resolver maps a logical description identifier to an absolute path.
type Resolver interface {
	Resolve(name string) (string, error)
}

// Loader builds a robot model from a description file path.
type Loader[T any] interface {
	LoadURDF(ctx context.Context, path string) (T, error)
}

// LoaderFunc adapts a function to a Loader.
type LoaderFunc[T any] func(ctx context.Context, path string) (T, error)

// LoadURDF calls f.
func (f LoaderFunc[T]) LoadURDF(ctx context.Context, path string) (T, error) {
	return f(ctx, path)
}

// Option configures an Injector.
type Option func(*options)

type options struct {
	transientPrefix string
}

// WithTransientPrefix sets the file name prefix of transient descriptions.
func WithTransientPrefix(prefix string) Option {
	return func(o *options) {
		o.transientPrefix = prefix
	}
}

// Injector resolves, patches and loads robot descriptions.
type Injector[T any] struct {
	resolver        Resolver
	loader          Loader[T]
	logger          logging.Logger
	transientPrefix string
}

// NewInjector returns an Injector resolving descriptions with resolver and loading them with loader.
func NewInjector[T any](resolver Resolver, loader Loader[T], logger logging.Logger, opts ...Option) *Injector[T] {
	o := options{transientPrefix: DefaultTransientPrefix}
	for _, opt := range opts {
		opt(&o)
	}
	return &Injector[T]{
		resolver:        resolver,
		loader:          loader,
		logger:          logger,
		transientPrefix: o.transientPrefix,
	}
}

// ResolveDescriptionPath returns the absolute path of the canonical description named by id.
// Resolver errors are returned unchanged.
func (inj *Injector[T]) ResolveDescriptionPath(id string) (string, error) {
	return inj.resolver.Resolve(id)
}

// Description is a description ready to be handed to a loader.
type Description struct {
	// SourcePath is the canonical description on disk. It is never modified.
	SourcePath string
	// Path is the file to load: SourcePath, or the transient patched copy.
	Path string
	// Patched is true when Path is a transient file holding an injected virtual base.
	Patched bool

	logger logging.Logger
}

// Close removes the transient file, if any. A file that is already gone is not an error.
func (d *Description) Close() error {
	if !d.Patched {
		return nil
	}
	if _, err := os.Stat(d.Path); errors.Is(err, os.ErrNotExist) {
		d.logger.Debugw("transient robot description already removed", "path", d.Path)
		return nil
	}
	if err := os.Remove(d.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "removing transient robot description %q", d.Path)
	}
	d.logger.Debugw("removed transient robot description", "path", d.Path)
	return nil
}

// Prepare resolves id and reads the description. A description without a virtual base is
// patched and written to a transient file in the same directory as the source; the caller must
// Close the returned Description to remove it.
func (inj *Injector[T]) Prepare(id string) (*Description, error) {
	sourcePath, err := inj.ResolveDescriptionPath(id)
	if err != nil {
		return nil, err
	}

	//nolint:gosec
	source, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading robot description %q", sourcePath)
	}

	desc := &Description{SourcePath: sourcePath, Path: sourcePath, logger: inj.logger}
	if urdf.HasVirtualBase(string(source)) {
		inj.logger.Debugw("robot description already has a virtual base", "path", sourcePath)
		return desc, nil
	}

	patched, err := urdf.InjectVirtualBase(string(source))
	if err != nil {
		return nil, errors.Wrapf(err, "patching robot description %q", sourcePath)
	}
	transientPath, err := MaterializeTransient(patched, filepath.Dir(sourcePath), inj.transientPrefix, filepath.Ext(sourcePath))
	if err != nil {
		return nil, err
	}
	inj.logger.Infow("injected virtual base into robot description", "source", sourcePath, "transient", transientPath)

	desc.Path = transientPath
	desc.Patched = true
	return desc, nil
}

// Load resolves the description named by id, injects a virtual base when it has none, and loads
// the result. A transient file created on the way is removed before Load returns, whatever the
// loader's outcome. Failing to remove it is logged and does not replace the loader's result.
func (inj *Injector[T]) Load(ctx context.Context, id string) (T, error) {
	desc, err := inj.Prepare(id)
	if err != nil {
		var zero T
		return zero, err
	}
	defer func() {
		if err := desc.Close(); err != nil {
			inj.logger.Warnw("failed to remove transient robot description", "path", desc.Path, "error", err)
		}
	}()

	inj.logger.Debugw("loading robot description", "id", id, "path", desc.Path, "patched", desc.Patched)
	return inj.loader.LoadURDF(ctx, desc.Path)
}

// MaterializeTransient writes doc to a new, uniquely named file in dir whose name starts with
// prefix and ends with ext, and returns its absolute path. On failure nothing is left behind and
// the error wraps ErrStorage.
func MaterializeTransient(doc, dir, prefix, ext string) (string, error) {
	return materializeTransient(strings.NewReader(doc), dir, prefix, ext)
}

func materializeTransient(doc io.Reader, dir, prefix, ext string) (path string, err error) {
	f, err := os.CreateTemp(dir, prefix+"*"+ext)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStorage, err)
	}
	defer func() {
		if err != nil {
			//nolint:errcheck
			os.Remove(f.Name())
		}
	}()

	if _, err := io.Copy(f, doc); err != nil {
		//nolint:errcheck
		f.Close()
		return "", fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrStorage, err)
	}

	path, err = filepath.Abs(f.Name())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return path, nil
}
