package event

// Type identifies the source of the message
type Type int

const (
	UserInput     Type = iota
	SystemControl      // Quit and other lifecycle requests
	AsyncResult        // Work completed elsewhere, dispatched onto the session loop
)

// Control action constants
const (
	ActionQuit   = "quit"
	ActionCancel = "cancel" // Drop pending continuation lines
)

// ControlOp contains control operation details
type ControlOp struct {
	Action string // Use Action* constants
}

// Event is the universal packet sent to the session loop
type Event struct {
	Type     Type
	Payload  string    // For user input
	Callback func()    // For AsyncResult
	Control  ControlOp // For SystemControl events
}
