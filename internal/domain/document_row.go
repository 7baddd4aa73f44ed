package domain

import "time"

// DocumentRow is the SQLite persistence shape of a Record. Payload holds the
// JSON-encoded Record; ExpiresAt mirrors the native TTL and is indexed for
// the sweeper.
type DocumentRow struct {
	Key       string    `gorm:"column:doc_key;type:TEXT NOT NULL;primaryKey"`
	Payload   []byte    `gorm:"type:BLOB NOT NULL"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (DocumentRow) TableName() string { return "temp_documents" }
