// Package modelpath locates robot description files on disk from their conventional relative
// identifiers, e.g. "models/fetch_description/robots/fetch.urdf".
package modelpath

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// EnvModelPath lists the directories searched for model files, separated by os.PathListSeparator.
const EnvModelPath = "ROBOTBUILDER_MODEL_PATH"

// ErrResourceNotFound is returned when no search root holds the requested model file.
var ErrResourceNotFound = errors.New("model resource not found")

// NewResourceNotFoundError reports the identifier that could not be resolved and where it was looked for.
func NewResourceNotFoundError(name string, roots []string) error {
	return errors.Wrapf(ErrResourceNotFound, "%q (searched %s)", name, strings.Join(roots, string(os.PathListSeparator)))
}

// Resolver turns relative model identifiers into absolute paths by searching an ordered list of
// root directories.
type Resolver struct {
	roots []string
}

// NewResolver returns a Resolver searching roots in order. Empty roots are skipped.
func NewResolver(roots ...string) *Resolver {
	r := &Resolver{}
	for _, root := range roots {
		if root = strings.TrimSpace(root); root != "" {
			r.roots = append(r.roots, root)
		}
	}
	return r
}

// FromEnv returns a Resolver over the directories named by EnvModelPath, or over the working
// directory when it is unset.
func FromEnv() *Resolver {
	if val, ok := os.LookupEnv(EnvModelPath); ok && strings.TrimSpace(val) != "" {
		return NewResolver(filepath.SplitList(val)...)
	}
	return NewResolver(".")
}

// Roots returns the search roots in order.
func (r *Resolver) Roots() []string {
	return append([]string(nil), r.roots...)
}

// Resolve returns the absolute path of the first regular file matching name under the search
// roots. An absolute name is returned unchanged if it exists.
func (r *Resolver) Resolve(name string) (string, error) {
	if filepath.IsAbs(name) {
		if isRegularFile(name) {
			return filepath.Clean(name), nil
		}
		return "", NewResourceNotFoundError(name, nil)
	}

	for _, root := range r.roots {
		candidate, err := filepath.Abs(filepath.Join(root, name))
		if err != nil {
			return "", errors.Wrapf(err, "resolving %q under %q", name, root)
		}
		if isRegularFile(candidate) {
			return candidate, nil
		}
	}
	return "", NewResourceNotFoundError(name, r.roots)
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
