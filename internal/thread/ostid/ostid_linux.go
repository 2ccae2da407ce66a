//go:build linux

package ostid

import "golang.org/x/sys/unix"

func platformCurrent() int64 {
	return int64(unix.Gettid())
}
