package domain

// LogKind selects which log files the Logs page shows.
type LogKind string

// Log kinds.
const (
	LogKindProcess LogKind = "process"
	LogKindError   LogKind = "error"
	LogKindAll     LogKind = "all"
)

// Label returns the selector label.
func (k LogKind) Label() string {
	switch k {
	case LogKindProcess:
		return "Process Logs"
	case LogKindError:
		return "Error Logs"
	case LogKindAll:
		return "All Logs"
	default:
		return unknownDescription
	}
}

// AllLogKinds returns the selector options in display order.
func AllLogKinds() []LogKind {
	return []LogKind{LogKindProcess, LogKindError, LogKindAll}
}
