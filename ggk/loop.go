package ggk

import "time"

// run is the single dedicated loop goroutine started once Start succeeds.
// Tick dispatch follows the fixed order: check for a transport-level
// fatal, drain the notify queue, fire due periodic handlers, check for a
// shutdown request.
func (s *Server) run() {
	ticker := time.NewTicker(s.cfg.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.transport.Lost():
			s.setHealth(FailedRun)
			s.log.Error("ggk: lost D-Bus bus name, shutting down")
			s.shutdown()
			return
		case <-s.stopCh:
			s.shutdown()
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Server) tick() {
	s.drainNotifyQueue()
	s.fireDueEvents()
}

func (s *Server) drainNotifyQueue() {
	paths := s.notify.drain()
	for _, p := range paths {
		h, ok := s.tree.Lookup(p)
		if !ok {
			continue
		}
		if !h.TriggerUpdated("") {
			continue
		}
		if err := s.transport.EmitChanged(h); err != nil {
			s.log.WithError(err).Warn("ggk: PropertiesChanged emission failed")
		}
	}
}

func (s *Server) fireDueEvents() {
	for _, eb := range s.tree.EventBindings() {
		if eb.Due() {
			eb.Fire()
		}
	}
}

func (s *Server) shutdown() {
	s.setState(Stopping)
	s.teardown()
	s.setState(Stopped)
	close(s.doneCh)
}
