package object

// Stream is the logical stream an object was written to.
type Stream int

const (
	StreamOutput Stream = iota
	StreamError
	StreamWarning
	StreamVerbose
	StreamDebug
	StreamInformation
)

func (s Stream) String() string {
	switch s {
	case StreamOutput:
		return "output"
	case StreamError:
		return "error"
	case StreamWarning:
		return "warning"
	case StreamVerbose:
		return "verbose"
	case StreamDebug:
		return "debug"
	case StreamInformation:
		return "information"
	}
	return "unknown"
}

// Classification is the result of inspecting an object's routing tags.
type Classification struct {
	Stream Stream

	// Record is set only for error-stream objects.
	Record *ErrorRecord

	// Tagged is true when any routing tag was attached, even one that did
	// not change the stream.
	Tagged bool
}

// IsError reports whether the object is an error routed to the error stream.
func (c Classification) IsError() bool { return c.Stream == StreamError }

// IsStandardOutput reports whether the object carried no routing tags.
func (c Classification) IsStandardOutput() bool { return !c.Tagged }

// Classify determines the stream of o from its routing tags.
//
// Untagged objects are standard output. An error tag only yields
// StreamError when the object carries an error record; otherwise the next
// tag decides, falling back to StreamOutput with Tagged set.
func Classify(o *Object) Classification {
	if o == nil || o.tags == 0 {
		return Classification{Stream: StreamOutput}
	}
	if o.tags&TagError != 0 {
		if rec := errorRecordOf(o); rec != nil {
			return Classification{Stream: StreamError, Record: rec, Tagged: true}
		}
	}
	for _, t := range allTags {
		if o.tags&t == 0 {
			continue
		}
		switch t {
		case TagWarning:
			return Classification{Stream: StreamWarning, Tagged: true}
		case TagVerbose:
			return Classification{Stream: StreamVerbose, Tagged: true}
		case TagDebug:
			return Classification{Stream: StreamDebug, Tagged: true}
		case TagInformation:
			return Classification{Stream: StreamInformation, Tagged: true}
		}
	}
	// Error tag without a record.
	return Classification{Stream: StreamOutput, Tagged: true}
}

// Strip removes every routing tag from o. It reports whether any tag was
// present.
func Strip(o *Object) bool {
	if o == nil || o.tags == 0 {
		return false
	}
	o.tags = 0
	return true
}

func errorRecordOf(o *Object) *ErrorRecord {
	switch v := o.Value.(type) {
	case *ErrorRecord:
		return v
	case ContainsErrorRecord:
		return v.ErrorRecord()
	}
	return nil
}
