package thread

import (
	"os"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/semaphore"

	"github.com/kolkov/threadglue/internal/config"
	"github.com/kolkov/threadglue/internal/logging"
	"github.com/kolkov/threadglue/internal/thread/backend"
	"github.com/kolkov/threadglue/internal/thread/hb"
)

// runtimeState is the process-wide state shared by all primitives.
type runtimeState struct {
	backend backend.Backend
	tracker *hb.Tracker
	logger  atomic.Pointer[log.Logger]

	// sem bounds live threads; nil when unlimited.
	sem        atomic.Pointer[semaphore.Weighted]
	maxThreads atomic.Int64
}

var lib = &runtimeState{
	backend: newBackend(),
	tracker: hb.New(),
}

func init() {
	cfg, cfgErr := config.Load(os.Getenv)

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logger = logging.Discard()
	}
	lib.logger.Store(logger)

	lib.configure(cfg)

	if cfgErr != nil {
		logger.Warn("ignoring invalid configuration", "err", cfgErr)
	}
	logger.Debug("threading layer ready",
		"backend", lib.backend.Name(),
		"max_threads", cfg.MaxThreads,
		"hbcheck", cfg.HBCheck,
	)
}

func (r *runtimeState) configure(cfg config.Config) {
	r.tracker.SetEnabled(cfg.HBCheck)
	r.setMaxThreads(cfg.MaxThreads)
}

// setMaxThreads replaces the live thread limit. Threads already running keep
// their slot in the previous limit.
func (r *runtimeState) setMaxThreads(n int64) {
	r.maxThreads.Store(n)
	if n <= 0 {
		r.sem.Store(nil)
		return
	}
	r.sem.Store(semaphore.NewWeighted(n))
}

func (r *runtimeState) log() *log.Logger {
	return r.logger.Load()
}

// SetLogger replaces the logger used for lifecycle events. A nil logger
// disables logging.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = logging.Discard()
	}
	lib.logger.Store(l)
}

// Logger returns the logger used for lifecycle events.
func Logger() *log.Logger {
	return lib.log()
}
