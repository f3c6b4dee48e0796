package query

// State is the sealed sum of query states: Idle, Loading, Success or Failure.
// The unexported method keeps other packages from adding variants.
type State[T any] interface {
	data() (T, bool)
	// IsFetching is true while a request for the current key is outstanding
	IsFetching() bool
}

// Idle means no key has been requested yet
type Idle[T any] struct{}

// Loading means a request is outstanding and there is nothing to show
type Loading[T any] struct{}

// Success holds data. Revalidating is set while a newer request is in
// flight; Data then belongs to the previous fetch, possibly of another key.
type Success[T any] struct {
	Data         T
	Revalidating bool
}

// Failure replaces any previous data with an error message
type Failure[T any] struct {
	Message string
	Err     error
}

func (Idle[T]) data() (T, bool) {
	var zero T
	return zero, false
}

func (Loading[T]) data() (T, bool) {
	var zero T
	return zero, false
}

func (s Success[T]) data() (T, bool) { return s.Data, true }

func (Failure[T]) data() (T, bool) {
	var zero T
	return zero, false
}

func (Idle[T]) IsFetching() bool      { return false }
func (Loading[T]) IsFetching() bool   { return true }
func (s Success[T]) IsFetching() bool { return s.Revalidating }
func (Failure[T]) IsFetching() bool   { return false }

// DataOf returns the data carried by a Success state
func DataOf[T any](s State[T]) (T, bool) {
	if s == nil {
		var zero T
		return zero, false
	}
	return s.data()
}

// Name returns a short label for logs and tests
func Name[T any](s State[T]) string {
	switch st := s.(type) {
	case Idle[T]:
		return "idle"
	case Loading[T]:
		return "loading"
	case Success[T]:
		if st.Revalidating {
			return "revalidating"
		}
		return "success"
	case Failure[T]:
		return "failure"
	default:
		return "unknown"
	}
}
