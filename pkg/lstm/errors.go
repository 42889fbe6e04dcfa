package lstm

import "fmt"

// Kind classifies an Error per spec §7.
type Kind int

const (
	// InvalidArgument covers shape/rank mismatches, unknown activation
	// names, and unsupported element types (e.g. double).
	InvalidArgument Kind = iota
	// NotImplemented covers paths flagged as future work (double precision).
	NotImplemented
	// OutOfMemory covers allocator failures.
	OutOfMemory
	// InternalError covers bounds violations caught by safe-slice access
	// and worker panics surfaced at the next join.
	InternalError
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "invalid_argument"
	case NotImplemented:
		return "not_implemented"
	case OutOfMemory:
		return "out_of_memory"
	case InternalError:
		return "internal_error"
	default:
		return "unknown"
	}
}

// Error wraps a classified failure with the operation and tensor it
// concerns, mirroring the teacher's marshaller Op/Format/Message/Err shape
// (x/marshaller/types.Error) generalized with a Kind instead of a format
// name.
type Error struct {
	Kind    Kind
	Op      string // e.g. "validate", "UniDirectionalLstm.compute"
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		if e.Err != nil {
			return fmt.Sprintf("lstm: %s[%s]: %s: %v", e.Op, e.Kind, e.Message, e.Err)
		}
		return fmt.Sprintf("lstm: %s[%s]: %s", e.Op, e.Kind, e.Message)
	}
	return fmt.Sprintf("lstm: %s[%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// newError constructs an *Error; err may be nil.
func newError(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

func invalidArgf(op, format string, args ...any) *Error {
	return newError(InvalidArgument, op, fmt.Sprintf(format, args...), nil)
}

func internalf(op string, err error, format string, args ...any) *Error {
	return newError(InternalError, op, fmt.Sprintf(format, args...), err)
}

func notImplementedf(op, format string, args ...any) *Error {
	return newError(NotImplemented, op, fmt.Sprintf(format, args...), nil)
}

func outOfMemoryf(op string, err error, format string, args ...any) *Error {
	return newError(OutOfMemory, op, fmt.Sprintf(format, args...), err)
}

// wrapErr folds an error from a collaborator or inner constructor into an
// *Error: if err already carries a Kind, that Kind is preserved and op is
// recorded as the outer call site; otherwise it's classified InternalError.
func wrapErr(op string, err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return &Error{Kind: e.Kind, Op: op, Message: e.Error(), Err: e}
	}
	return internalf(op, err, "%v", err)
}

// IsKind reports whether err is an *Error of the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if err == nil {
		return false
	}
	if ae, ok := err.(*Error); ok {
		e = ae
	} else {
		return false
	}
	return e.Kind == kind
}
