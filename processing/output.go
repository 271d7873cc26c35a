package processing

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// OutputPath returns the path of the dataset for the named layer
func OutputPath(dir, name, ext string) string {
	return filepath.Join(dir, name+"."+ext)
}

// PrepareOutput ensures none of the paths exist before a dataset is created.
// With overwrite existing files are removed, without it they are an ErrIOFailure.
func PrepareOutput(overwrite bool, paths ...string) error {
	for _, p := range paths {
		_, err := os.Stat(p)
		switch {
		case err == nil:
			if !overwrite {
				return fmt.Errorf("%w: %s already exists, use overwrite to replace it", ErrIOFailure, p)
			}
			if err = os.Remove(p); err != nil {
				return fmt.Errorf("%w: could not remove target file: %v", ErrIOFailure, err)
			}
		case errors.Is(err, fs.ErrNotExist):
			continue
		default:
			return fmt.Errorf("%w: %v", ErrIOFailure, err)
		}
	}
	return nil
}

// IOFailure wraps err as an ErrIOFailure, keeping nil as nil.
func IOFailure(err error, format string, a ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %v", ErrIOFailure, fmt.Sprintf(format, a...), err)
}
