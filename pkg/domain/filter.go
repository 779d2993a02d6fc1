package domain

// ChangeEvent is the selection change emitted by a dropdown.
type ChangeEvent struct {
	Target ChangeTarget
}

type ChangeTarget struct {
	Name  string
	Value string
}

// FilterProps are the inputs of a dropdown filter. SelectedValue is expected
// to be one of AvailableValues but this is not enforced.
type FilterProps struct {
	SelectedValue   string
	AvailableValues []string
	OnChange        func(*ChangeEvent)
}
