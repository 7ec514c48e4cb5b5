package utility

import (
	"github.com/google/uuid"
)

// RunID identifies one pricing run across logs, exports and database rows. UUIDv7 keeps
// ids ordered by creation time.
type RunID = uuid.UUID

func NewRunID() RunID {
	return uuid.Must(uuid.NewV7())
}

func ParseRunID(s string) (RunID, error) {
	return uuid.Parse(s)
}
