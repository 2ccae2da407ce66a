//go:build windows

package ostid

import "golang.org/x/sys/windows"

func platformCurrent() int64 {
	return int64(windows.GetCurrentThreadId())
}
