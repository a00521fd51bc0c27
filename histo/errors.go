package histo

import "fmt"

// Kind classifies container failures.
type Kind int

const (
	NotFound Kind = iota + 1
	WrongType
	Duplicate
	GroupNotFound
	InvalidBinning
	InvalidName
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case WrongType:
		return "wrong type"
	case Duplicate:
		return "duplicate"
	case GroupNotFound:
		return "group not found"
	case InvalidBinning:
		return "invalid binning"
	case InvalidName:
		return "invalid name"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrNotFound       = &Error{Kind: NotFound}
	ErrWrongType      = &Error{Kind: WrongType}
	ErrDuplicate      = &Error{Kind: Duplicate}
	ErrGroupNotFound  = &Error{Kind: GroupNotFound}
	ErrInvalidBinning = &Error{Kind: InvalidBinning}
	ErrInvalidName    = &Error{Kind: InvalidName}
)

// Error is returned by every failing container operation. Name is the leaf
// name of the offending entry and Group the path of the group it was looked
// up in; either may be empty.
type Error struct {
	Kind   Kind
	Name   string
	Group  string
	Reason string
	// Want is the kind of object the operation expected, set for WrongType.
	Want string
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case NotFound:
		msg = fmt.Sprintf("histogram %q not found in group %q", e.Name, groupLabel(e.Group))
	case WrongType:
		want := e.Want
		if want == "" {
			want = "histogram"
		}
		msg = fmt.Sprintf("object %q in group %q is not a %s", e.Name, groupLabel(e.Group), want)
	case Duplicate:
		msg = fmt.Sprintf("object %q already exists in group %q", e.Name, groupLabel(e.Group))
	case GroupNotFound:
		msg = fmt.Sprintf("group %q not found", groupLabel(e.Group))
	case InvalidBinning:
		msg = fmt.Sprintf("invalid binning for %q", e.Name)
	case InvalidName:
		msg = fmt.Sprintf("invalid name %q in group %q", e.Name, groupLabel(e.Group))
	default:
		msg = e.Kind.String()
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return "histo: " + msg
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func groupLabel(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

func newError(kind Kind, name, group string, format string, args ...interface{}) *Error {
	err := &Error{Kind: kind, Name: name, Group: group}
	if format != "" {
		err.Reason = fmt.Sprintf(format, args...)
	}
	return err
}

func wrongType(name, group, want string, format string, args ...interface{}) *Error {
	err := newError(WrongType, name, group, format, args...)
	err.Want = want
	return err
}
