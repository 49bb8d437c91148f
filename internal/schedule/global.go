package schedule

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// FallbackRefreshRate is served when no global schedule is loaded.
const FallbackRefreshRate = 60

var (
	globalOnce     sync.Once
	globalSchedule atomic.Pointer[RefreshSchedule]
)

// InitGlobal loads the process-wide schedule from a YAML file. Call it once
// at startup; later calls are no-ops, including after a failed load (the
// registry is write-once and cannot be reloaded without a restart). A load
// failure is logged and leaves lookups on the fallback rate, so a broken
// config file never takes the serving process down.
func InitGlobal(path string) {
	globalOnce.Do(func() {
		s, err := Load(path)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("refresh schedule not loaded, using fallback rate")
			return
		}
		log.Info().
			Int("rules", len(s.Schedule)).
			Int("default_refresh_rate", s.DefaultRefreshRate).
			Msg("loaded refresh schedule")
		globalSchedule.Store(s)
	})
}

// GlobalRate resolves the refresh rate for the current time against the
// global schedule, or returns FallbackRefreshRate when none is loaded.
func GlobalRate() int {
	if s := globalSchedule.Load(); s != nil {
		return s.Rate()
	}
	return FallbackRefreshRate
}
