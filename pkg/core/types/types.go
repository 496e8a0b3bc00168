package types

// UniqueID is a unique identifier that is handed out by an owner under its own lock.
type UniqueID uint64

// Next returns the next unique identifier.
func (u *UniqueID) Next() UniqueID {
	*u++

	return *u
}

// PropertyName is the explicit tag of an observable property (e.g. "Value" or "Title").
type PropertyName string

// IsEmpty returns true if the name does not identify any property.
func (p PropertyName) IsEmpty() bool {
	return p == ""
}

// String returns a human-readable version of the PropertyName.
func (p PropertyName) String() string {
	return string(p)
}
