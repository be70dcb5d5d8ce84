package bulk

// ImportStatus is the lifecycle state of one import job as reported on the
// wire. Unknown values are carried through unchanged so they can be projected
// to a neutral indicator instead of being rejected.
type ImportStatus string

const (
	ImportStatusProcessing ImportStatus = "processing"
	ImportStatusCompleted  ImportStatus = "completed"
	ImportStatusFailed     ImportStatus = "failed"
)

// IsValid checks if the status is one of the known states
func (s ImportStatus) IsValid() bool {
	switch s {
	case ImportStatusProcessing, ImportStatusCompleted, ImportStatusFailed:
		return true
	}
	return false
}

// IsTerminal returns true if no further transitions are possible
func (s ImportStatus) IsTerminal() bool {
	return s == ImportStatusCompleted || s == ImportStatusFailed
}

func (s ImportStatus) String() string {
	return string(s)
}
