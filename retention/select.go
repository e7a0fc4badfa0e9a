package retention

import "github.com/drake/runehist/object"

// Options controls value selection.
type Options struct {
	CaptureNull       bool
	CaptureValueTypes bool

	// WrapSingle assigns a lone item as a one-element collection. Hosts
	// set it when the invocation also bound its output to the same
	// variable, which otherwise clears a bare single object.
	WrapSingle bool
}

// Assignment is the value to store in the last-output variable.
type Assignment struct {
	// Skip leaves the variable unset.
	Skip bool

	// Value is nil, a *object.Object, or a []*object.Object.
	Value any
}

// Select picks the value for the last-output variable from the captured
// items of an invocation that is allowed to overwrite it.
func Select(items []*object.Object, opts Options) Assignment {
	switch {
	case len(items) == 0, len(items) == 1 && items[0].IsNull():
		if opts.CaptureNull {
			return Assignment{Value: nil}
		}
		return Assignment{Skip: true}

	case len(items) == 1:
		item := items[0]
		if item.IsValueType() && !opts.CaptureValueTypes {
			return Assignment{Skip: true}
		}
		if opts.WrapSingle {
			return Assignment{Value: []*object.Object{item}}
		}
		return Assignment{Value: item}
	}

	out := make([]*object.Object, len(items))
	copy(out, items)
	return Assignment{Value: out}
}
