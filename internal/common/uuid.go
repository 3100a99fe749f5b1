package common

import (
	"strings"

	"github.com/google/uuid"
)

type UUID string

func NewUUID() UUID {
	return UUID(uuid.NewString())
}

// DeriveUUID deterministically maps a key to a UUID. Used to idempotency-key
// records that may be written more than once for the same logical event.
func DeriveUUID(key string) UUID {
	return UUID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String())
}

func ParseUUID(value string) (UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return "", err
	}
	return UUID(parsed.String()), nil
}

func (u UUID) String() string {
	return string(u)
}

func (u UUID) IsZero() bool {
	return u == ""
}
