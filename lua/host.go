package lua

// Host provides the bridge between Engine and the rest of the system.
// This abstraction decouples Engine from the session, making it testable
// without a UI.
type Host interface {
	OutputService
	HistoryService
	SystemService
}
