package ui

// UI defines the contract for the terminal display layer.
// Implementations live in the same package (ConsoleUI, BubbleTeaUI).
type UI interface {
	Run() error
	Quit()
	Done() <-chan struct{}

	// Input/Output
	Input() <-chan string
	Print(text string)
	SetPrompt(text string)

	// Updates
	SetStatus(text string)
}
