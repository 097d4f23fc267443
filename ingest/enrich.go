package ingest

import (
	"time"

	"github.com/w-h-a/finrag/store"
)

// Stamp carries the traceability fields applied to every chunk of one
// ingestion run.
type Stamp struct {
	OwnerId    string
	SessionId  string
	Source     string
	UploadedAt time.Time
}

// Enrich stamps the traceability fields onto each record. Restamping with
// identical inputs overwrites and yields identical output; it never appends.
func Enrich(records []store.Record, stamp Stamp) []store.Record {
	for i := range records {
		records[i].OwnerId = stamp.OwnerId
		records[i].SessionId = stamp.SessionId
		records[i].Source = stamp.Source
		records[i].UploadedAt = stamp.UploadedAt

		if len(records[i].Page) == 0 {
			records[i].Page = "Unknown"
		}
		if len(records[i].Layer) == 0 {
			records[i].Layer = "chunk"
		}
	}

	return records
}
