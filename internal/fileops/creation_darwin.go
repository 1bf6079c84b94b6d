//go:build darwin

package fileops

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

func birthTime(path string, info os.FileInfo) (time.Time, bool) {
	if _, ok := info.Sys().(*syscall.Stat_t); !ok {
		return time.Time{}, false
	}
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return time.Time{}, false
	}
	sec, nsec := st.Btim.Unix()
	return time.Unix(sec, nsec), true
}
