package gitmeta

// Tristate is a boolean that may also be unknown.
type Tristate int8

const (
	// Unknown means the project is not under version control or the query failed.
	Unknown Tristate = iota
	// Clean means the working tree has no pending changes.
	Clean
	// Dirty means the working tree has pending changes.
	Dirty
)

// FromBool converts a known dirty flag.
func FromBool(dirty bool) Tristate {
	if dirty {
		return Dirty
	}
	return Clean
}

// Known reports whether the state was determined.
func (t Tristate) Known() bool {
	return t == Clean || t == Dirty
}

// String returns "dirty", "clean" or "" for unknown, matching the status
// column of the table output.
func (t Tristate) String() string {
	switch t {
	case Dirty:
		return "dirty"
	case Clean:
		return "clean"
	default:
		return ""
	}
}

// MarshalJSON encodes Unknown as null and the known states as booleans.
func (t Tristate) MarshalJSON() ([]byte, error) {
	switch t {
	case Dirty:
		return []byte("true"), nil
	case Clean:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, true or false.
func (t *Tristate) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true":
		*t = Dirty
	case "false":
		*t = Clean
	default:
		*t = Unknown
	}
	return nil
}
