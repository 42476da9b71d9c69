package model

import (
	"strings"

	"github.com/google/uuid"
)

// StableID derives a deterministic id from a record kind and its natural key,
// so re-importing the same person overwrites rather than duplicates.
func StableID(kind string, key ...string) string {
	name := kind + ":" + strings.Join(key, "|")
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}
