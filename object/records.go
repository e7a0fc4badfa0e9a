package object

import "fmt"

// NoOrigin marks an error record that was not attributed to an invocation.
const NoOrigin int64 = -1

// ErrorKind classifies what caused an error record.
type ErrorKind int

const (
	KindWritten         ErrorKind = iota // Non-terminating error written by user code
	KindRuntime                          // Engine fault while running user code
	KindRaised                           // Explicitly raised by user code
	KindPipelineStop                     // Pipeline stopped on request
	KindIncompleteParse                  // Input ended before the statement did
	KindParse                            // Any other syntax error
)

func (k ErrorKind) String() string {
	switch k {
	case KindWritten:
		return "written"
	case KindRuntime:
		return "runtime"
	case KindRaised:
		return "raised"
	case KindPipelineStop:
		return "pipeline-stop"
	case KindIncompleteParse:
		return "incomplete-parse"
	case KindParse:
		return "parse"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ErrorRecord describes one error in the host's error log.
type ErrorRecord struct {
	Message string
	Kind    ErrorKind

	// OriginID is the invocation that produced the error, or NoOrigin.
	OriginID int64

	// Hash is the record's identity in the error log.
	Hash uint64
}

func (r *ErrorRecord) Error() string  { return r.Message }
func (r *ErrorRecord) String() string { return r.Message }

// HasOrigin reports whether the record was attributed to an invocation.
func (r *ErrorRecord) HasOrigin() bool { return r.OriginID != NoOrigin }

// ContainsErrorRecord is implemented by values that carry an ErrorRecord.
type ContainsErrorRecord interface {
	ErrorRecord() *ErrorRecord
}

// WarningRecord is a message written to the warning stream.
type WarningRecord struct{ Message string }

func (r *WarningRecord) String() string { return "WARNING: " + r.Message }

// VerboseRecord is a message written to the verbose stream.
type VerboseRecord struct{ Message string }

func (r *VerboseRecord) String() string { return "VERBOSE: " + r.Message }

// DebugRecord is a message written to the debug stream.
type DebugRecord struct{ Message string }

func (r *DebugRecord) String() string { return "DEBUG: " + r.Message }

// InformationRecord is a message written to the information stream.
type InformationRecord struct{ Message string }

func (r *InformationRecord) String() string { return r.Message }

// NewError wraps rec as an object routed to the error stream.
func NewError(rec *ErrorRecord) *Object {
	return Tagged(rec, TagError)
}

// NewWarning returns a warning-stream object.
func NewWarning(msg string) *Object {
	return Tagged(&WarningRecord{Message: msg}, TagWarning)
}

// NewVerbose returns a verbose-stream object.
func NewVerbose(msg string) *Object {
	return Tagged(&VerboseRecord{Message: msg}, TagVerbose)
}

// NewDebug returns a debug-stream object.
func NewDebug(msg string) *Object {
	return Tagged(&DebugRecord{Message: msg}, TagDebug)
}

// NewInformation returns an information-stream object.
func NewInformation(msg string) *Object {
	return Tagged(&InformationRecord{Message: msg}, TagInformation)
}

// SourceLocation is a call site that produced output.
type SourceLocation struct {
	Source string
	Line   int
}

func (l SourceLocation) String() string {
	return fmt.Sprintf("%s:%d", l.Source, l.Line)
}
