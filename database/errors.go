package database

// StateErrorCode is the code carried by every StateError.
const StateErrorCode = 500

// StateError reports an operation attempted on a builder that has no query or
// union state to work with. It is a caller logic error, never a database one.
type StateError struct {
	Message string
	Code    int
}

func (e *StateError) Error() string {
	return e.Message
}

var (
	// ErrEmptyUnionQuery is returned by AddQueryToUnion before BuildQuery.
	ErrEmptyUnionQuery = &StateError{Message: "cannot add an empty query to union", Code: StateErrorCode}
	// ErrEmptyUnionSet is returned by BuildUnionQuery when no query was added to the union.
	ErrEmptyUnionSet = &StateError{Message: "cannot build a union query", Code: StateErrorCode}
	// ErrEmptyQuery is returned by RunQuery when nothing was built.
	ErrEmptyQuery = &StateError{Message: "cannot run an empty query", Code: StateErrorCode}
)
