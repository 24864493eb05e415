package deps

// Status reports whether an external binary tracksift relies on can be
// executed, and which path will be used.
type Status struct {
	Name        string
	Command     string
	Description string
	Available   bool
	Detail      string
}
