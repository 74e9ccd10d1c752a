package diag

// Severity orders diagnostics; only SevError makes a module broken.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

// Valid reports whether s is one of the known severities. Values read back
// from the check cache go through it.
func (s Severity) Valid() bool {
	return s <= SevError
}

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
