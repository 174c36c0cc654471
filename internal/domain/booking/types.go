package booking

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsActive reports whether a booking in this status still occupies its time range.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusAccepted
}

func ParseStatus(v string) (Status, error) {
	s := Status(v)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// Metadata keys persisted with every booking
const (
	MetaProfileID       = "profileId"
	MetaStudentName     = "studentName"
	MetaStudentEmail    = "studentEmail"
	MetaStudentQuestion = "studentQuestion"
	MetaMeetLink        = "meetLink"
	MetaCancelledBy     = "cancelledBy"
	MetaCancelledAt     = "cancelledAt"
	MetaRescheduledAt   = "rescheduledAt"
	MetaPreviousStart   = "previousStart"
	MetaRescheduleCount = "rescheduleCount"
	MetaCompletedAt     = "completedAt"
)

type Metadata map[string]any

func (m Metadata) String(key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// Int tolerates values that went through a JSON round trip and came back as float64.
func (m Metadata) Int(key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func (m Metadata) clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
