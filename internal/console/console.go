package console

var attached bool

// IsAttached returns whether a console is attached
func IsAttached() bool {
	return attached
}
