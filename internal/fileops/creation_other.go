//go:build !linux && !darwin && !windows

package fileops

import (
	"os"
	"time"
)

func birthTime(string, os.FileInfo) (time.Time, bool) {
	return time.Time{}, false
}
