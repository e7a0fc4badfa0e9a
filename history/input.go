package history

// Input is one line from the REPL input history. It is a history record,
// so emitting it never grows extended history.
type Input struct {
	ID   int64
	Line string
}

func (i *Input) HistoryID() int64 { return i.ID }

func (i *Input) String() string { return i.Line }
