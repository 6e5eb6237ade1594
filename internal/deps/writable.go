package deps

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// CheckWritable reports whether dir exists (or can be created) and is
// writable by the current user.
func CheckWritable(name, dir string) Status {
	status := Status{Name: name, Command: dir, Description: "writable directory"}
	if dir == "" {
		status.Detail = "path not configured"
		return status
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		status.Detail = fmt.Sprintf("create %s: %v", dir, err)
		return status
	}
	if err := unix.Access(dir, unix.W_OK|unix.X_OK); err != nil {
		status.Detail = fmt.Sprintf("%s is not writable: %v", dir, err)
		return status
	}
	status.Available = true
	return status
}

// CheckReadable reports whether a required file such as the whisper model
// exists and can be read.
func CheckReadable(name, path string) Status {
	status := Status{Name: name, Command: path, Description: "readable file"}
	if path == "" {
		status.Detail = "path not configured"
		return status
	}
	info, err := os.Stat(path)
	if err != nil {
		status.Detail = fmt.Sprintf("%s not found", path)
		return status
	}
	if info.IsDir() {
		status.Detail = fmt.Sprintf("%s is a directory", path)
		return status
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		status.Detail = fmt.Sprintf("%s is not readable: %v", path, err)
		return status
	}
	status.Available = true
	return status
}
