package ui

// PrintMsg appends a rendered line to the scrollback.
type PrintMsg string

// PromptMsg replaces the input prompt (primary or continuation).
type PromptMsg string

// StatusTextMsg updates the status bar text.
type StatusTextMsg string
