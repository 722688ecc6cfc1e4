package server

import "sync"

// session holds the most recently generated transfer so that a later
// validate call can check it against a rebuilt request.
type session struct {
	mu         sync.Mutex
	transferID string
	signature  string
}

func (s *session) store(transferID, signature string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transferID = transferID
	s.signature = signature
}

func (s *session) load() (string, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.transferID, s.signature, s.signature != ""
}
