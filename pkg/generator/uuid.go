package generator

import "github.com/google/uuid"

// UUID returns a time-ordered (v7) identifier, falling back to v4 if the clock source fails.
func UUID() string {
	newUUID, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return newUUID.String()
}
