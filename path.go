package subprocess

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvironmentPath returns the directories listed in $PATH, in order, without
// empty entries.
func EnvironmentPath() []string {
	var dirs []string
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// LookPath resolves command to the path to launch.
//
// A command containing a path separator ("/usr/bin/env", "./tool") is
// returned unchanged; whether it exists is left to the launch. A bare name
// is looked up in each directory of searchPath in order and the first
// executable regular file wins. A bare name is never resolved against the
// current directory; if no directory has it, the error matches
// ErrCommandNotFound.
func LookPath(command string, searchPath []string) (string, error) {
	if command == "" {
		return "", fmt.Errorf("empty command: %w", ErrCommandNotFound)
	}
	if strings.ContainsRune(command, '/') || strings.ContainsRune(command, filepath.Separator) {
		return command, nil
	}
	for _, dir := range searchPath {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, command)
		if isExecutableFile(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%q: %w", command, ErrCommandNotFound)
}

// isExecutableFile reports whether path is a regular file (after following
// symlinks) with at least one execute bit set.
func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}
