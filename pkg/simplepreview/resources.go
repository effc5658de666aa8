package simplepreview

import "sync"

// resourceSlot owns the single live ResourceHandle of the active preview.
// Adopting a new handle always releases the previous one; teardown and
// supersession both go through ReleaseCurrent. No other code path may
// release an adopted handle, which keeps the exactly-once release invariant
// in one place.
type resourceSlot struct {
	mu      sync.Mutex
	current ResourceHandle
}

// Adopt takes ownership of handle, releasing any previously adopted one.
// A nil handle just releases the current one.
func (s *resourceSlot) Adopt(handle ResourceHandle) {
	s.mu.Lock()
	previous := s.current
	s.current = handle
	s.mu.Unlock()

	if previous != nil {
		previous.Release()
	}
}

// ReleaseCurrent releases the adopted handle, if any. Safe to call on an
// empty slot and safe to call repeatedly.
func (s *resourceSlot) ReleaseCurrent() {
	s.Adopt(nil)
}

// Current returns the adopted handle without transferring ownership.
func (s *resourceSlot) Current() ResourceHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}
