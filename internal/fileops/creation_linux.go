//go:build linux

package fileops

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// birthTime asks statx for the birth time. Filesystems that do not report it
// fall back to ctime. Non-OS file infos (in-memory filesystems) have neither.
func birthTime(path string, info os.FileInfo) (time.Time, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT, unix.STATX_BTIME, &stx); err == nil &&
		stx.Mask&unix.STATX_BTIME != 0 {
		return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec)), true
	}
	return time.Unix(int64(st.Ctim.Sec), int64(st.Ctim.Nsec)), true
}
