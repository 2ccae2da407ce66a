//go:build !windows && !threadglue_event

package thread

import (
	"github.com/kolkov/threadglue/internal/thread/backend"
	"github.com/kolkov/threadglue/internal/thread/posix"
)

func newBackend() backend.Backend {
	return posix.New()
}
