// Package appdir resolves the per-user state directory of rc5-go.
package appdir

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const Name = ".rc5-go"

var (
	appDirOnce  sync.Once
	appDirCache string
	appDirErr   error
)

// AppDir returns $HOME/.rc5-go, or the value of RC5_HOME when set.
func AppDir() (string, error) {
	appDirOnce.Do(func() {
		if dir := os.Getenv("RC5_HOME"); dir != "" {
			appDirCache = dir
			return
		}
		home, err := os.UserHomeDir()
		if err != nil {
			appDirErr = fmt.Errorf("appdir: resolve home: %w", err)
			return
		}
		appDirCache = filepath.Join(home, Name)
	})
	return appDirCache, appDirErr
}

// Ensure creates the application directory if it does not exist yet.
func Ensure() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("appdir: create %s: %w", dir, err)
	}
	return dir, nil
}

// Resolve maps name to a path inside the application directory unless it is
// already absolute.
func Resolve(name string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}
	dir, err := Ensure()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
