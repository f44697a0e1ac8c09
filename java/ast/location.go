package ast

import "strconv"

// Location identifies a point in a source file. It is attached to every node
// and is used for diagnostics only.
type Location struct {
	File   string
	Line   int
	Column int
}

func (l Location) Loc() Location {
	return l
}

func (l Location) String() string {
	s := strconv.Itoa(l.Line) + ":" + strconv.Itoa(l.Column)
	if l.File == "" {
		return s
	}
	return l.File + ":" + s
}
