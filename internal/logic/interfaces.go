package logic

// Titled is anything the title filter can match against
type Titled interface {
	GetTitle() string
}

// Identified is an entity addressed by an integer id
type Identified interface {
	GetID() int
}

// Entity is both identified and titled
type Entity interface {
	Identified
	Titled
}

// Store keeps the entities the user has already seen, so a detail
// screen can render its header before its own fetch completes
type Store[T Identified] interface {
	Get(id int) (T, bool)
	All() []T
	Put(items ...T)
	Remove(id int)
	Len() int
}

// SortMode represents different sort modes for list screens
type SortMode int

const (
	SortByID SortMode = iota
	SortByTitle
	SortByTitleDesc
)

// String returns the label shown in the footer
func (m SortMode) String() string {
	switch m {
	case SortByTitle:
		return "title"
	case SortByTitleDesc:
		return "title (desc)"
	default:
		return "id"
	}
}

// Next cycles to the following sort mode
func (m SortMode) Next() SortMode {
	return (m + 1) % 3
}
