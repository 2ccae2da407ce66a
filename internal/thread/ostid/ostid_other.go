//go:build !linux && !windows

package ostid

func platformCurrent() int64 {
	return Unknown
}
