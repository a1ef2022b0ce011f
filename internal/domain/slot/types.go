package slot

// Type is informational only; it never affects pricing or availability.
type Type string

const (
	TypeCovered   Type = "covered"
	TypeUncovered Type = "uncovered"
	TypeVisitor   Type = "visitor"
)

func (t Type) String() string {
	return string(t)
}

func (t Type) IsValid() bool {
	switch t {
	case TypeCovered, TypeUncovered, TypeVisitor:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusDeleted:
		return true
	default:
		return false
	}
}
