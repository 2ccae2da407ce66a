//go:build windows || threadglue_event

package thread

import (
	"github.com/kolkov/threadglue/internal/thread/backend"
	"github.com/kolkov/threadglue/internal/thread/winevent"
)

func newBackend() backend.Backend {
	return winevent.New()
}
