package domain

import "time"

// RunStats holds statistics about one pass over the manifest.
type RunStats struct {
	Rows      int // data rows read from the manifest
	Resumed   int // rows skipped before the checkpoint matched
	Invalid   int // rows rejected by delivery-type/URL/id validation
	Missing   int // rows whose video id does not exist on the platform
	Aborted   int // rows abandoned on transient errors (token, transport, signing)
	Submitted int // ingest requests sent (accepted or rejected upstream)
	Failed    int // submissions rejected by the ingest API
	Published int // events published for submitted rows
	Duration  time.Duration
}
