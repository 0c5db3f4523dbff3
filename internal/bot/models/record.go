package models

import "time"

// TastingRecord is the durable artifact produced by one completed
// conversation. Immutable once written.
type TastingRecord struct {
	ID          int64
	UserID      int64
	OccurredAt  time.Time
	WineName    string
	Region      string
	Grapes      string
	VintageYear *int64
	Experience  string
	Photos      []PhotoRef
}

// PhotoRef ties an object-storage key to its tasting record. The key itself
// is the primary id, so a ref can never point at a blob with a different key.
type PhotoRef struct {
	ID              string
	TastingRecordID int64
}
