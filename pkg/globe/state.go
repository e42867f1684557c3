package globe

import "sync"

// State is the client state shared by reconciliation and rendering: who
// the viewer is and what was drawn last.
type State struct {
	mu          sync.RWMutex
	viewerID    string
	fingerprint string
}

// SetViewer marks id as the signed-in participant. The next pass renders
// even when the roster is unchanged, so the viewer's ring appears.
func (s *State) SetViewer(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.viewerID != id {
		s.viewerID = id
		s.fingerprint = ""
	}
}

func (s *State) ViewerID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewerID
}

// Reset forgets the viewer and the last frame, as on sign-out.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewerID = ""
	s.fingerprint = ""
}

func (s *State) lastFingerprint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fingerprint
}

func (s *State) rendered(fp string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fingerprint = fp
}
