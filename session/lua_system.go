package session

// Quit implements lua.SystemService.
func (s *Session) Quit() {
	s.shutdown()
}

// SessionID implements lua.SystemService.
func (s *Session) SessionID() string {
	return s.config.SessionID
}
