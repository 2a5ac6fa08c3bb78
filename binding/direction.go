package binding

import "fmt"

// Direction says which way values flow between model and target.
type Direction uint8

const (
	// ReadOnly pushes model values to the target.
	ReadOnly Direction = iota
	// WriteOnly pushes target values to the model.
	WriteOnly
	// Bidirectional does both.
	Bidirectional
)

func (d Direction) String() string {
	switch d {
	case ReadOnly:
		return "read-only"
	case WriteOnly:
		return "write-only"
	case Bidirectional:
		return "bidirectional"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// ParseDirection accepts the names produced by String plus the short
// declaration forms "<=", "=>" and "<=>".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "read-only", "<=":
		return ReadOnly, nil
	case "write-only", "=>":
		return WriteOnly, nil
	case "bidirectional", "<=>":
		return Bidirectional, nil
	default:
		return 0, fmt.Errorf("binding: unknown direction %q", s)
	}
}

// Reads reports whether model changes reach the target.
func (d Direction) Reads() bool {
	return d == ReadOnly || d == Bidirectional
}

// Writes reports whether target changes reach the model.
func (d Direction) Writes() bool {
	return d == WriteOnly || d == Bidirectional
}
