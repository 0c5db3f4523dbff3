// Package storage uploads photo blobs to S3-compatible object storage under
// deterministic, chronologically sortable keys.
package storage

import (
	"fmt"
	"time"
)

// DeriveKey builds the storage key for an attachment: the event timestamp
// (date and time, zero-padded) joined with the transport's unique file id.
// The timestamp prefix makes keys sort chronologically. The format is fixed;
// existing objects were written under it.
func DeriveKey(t time.Time, fileUniqueID string) string {
	return fmt.Sprintf("%04d%02d%02d_%02d%02d%02d_%s",
		t.Year(), int(t.Month()), t.Day(),
		t.Hour(), t.Minute(), t.Second(),
		fileUniqueID)
}
