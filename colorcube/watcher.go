package colorcube

import (
	"sync"
	"time"

	"github.com/rkjdid/util"
	"github.com/rs/zerolog/log"
)

type WatcherConfig struct {
	BatteryPollRate util.Duration
}

var DefaultWatcherConfig = WatcherConfig{
	BatteryPollRate: util.Duration(time.Minute),
}

// Watcher re-samples the battery gate in the background and logs
// threshold crossings. It never touches the strip: the boot blink stays
// the only visual battery report.
type Watcher struct {
	battery *Battery
	cfg     *WatcherConfig
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

func NewWatcher(battery *Battery, cfg *WatcherConfig) *Watcher {
	if cfg == nil {
		cfg = &DefaultWatcherConfig
	}
	return &Watcher{
		battery: battery,
		cfg:     cfg,
	}
}

func (w *Watcher) Stop() {
	if w.stopCh == nil {
		return
	}
	log.Info().Msg("stopping battery watcher")
	close(w.stopCh)
	w.wg.Wait()
}

func (w *Watcher) WatchBattery() {
	w.stopCh = make(chan struct{})
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		last := BatteryOk
		for {
			select {
			case <-time.After(time.Duration(w.cfg.BatteryPollRate)):
			case <-w.stopCh:
				w.stopCh = nil
				return
			}

			st, err := w.battery.Status()
			if err != nil {
				log.Warn().Err(err).Msg("battery poll")
				continue
			}
			if st == last {
				continue
			}
			if st == BatteryFault {
				log.Warn().Str("battery", st.String()).Msg("battery below empty threshold")
			} else {
				log.Info().Str("battery", st.String()).Msg("battery recovered")
			}
			last = st
		}
	}()
}
