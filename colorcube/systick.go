package colorcube

import (
	"sync"
	"sync/atomic"
	"time"
)

// Clock is the machine's only source of elapsed time.
type Clock interface {
	Millis() uint64
}

// Systick is a free-running millisecond counter. A single goroutine
// advances it on a periodic tick; every other party only reads. The
// counter is the one piece of state shared across contexts, hence the
// atomic cell.
type Systick struct {
	ticks  atomic.Uint64
	stopCh chan struct{}
	wg     sync.WaitGroup
}

func NewSystick() *Systick {
	return &Systick{}
}

func (s *Systick) Start() {
	if s.stopCh != nil {
		return
	}
	s.stopCh = make(chan struct{})
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		t := time.NewTicker(time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				s.ticks.Add(1)
			case <-s.stopCh:
				return
			}
		}
	}()
}

func (s *Systick) Stop() {
	if s.stopCh == nil {
		return
	}
	close(s.stopCh)
	s.wg.Wait()
	s.stopCh = nil
}

func (s *Systick) Millis() uint64 {
	return s.ticks.Load()
}
