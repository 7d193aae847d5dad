package constants

// ScanStatus is the canonical status for rows in scan_jobs.
type ScanStatus string

// Stable values (store these exact strings in DB).
const (
	ScanStatusQueued  ScanStatus = "QUEUED"  // discovered, not yet processed
	ScanStatusRunning ScanStatus = "RUNNING" // recognition/extraction in progress
	ScanStatusOK      ScanStatus = "OK"      // records extracted
	ScanStatusFailed  ScanStatus = "FAILED"  // terminal failure
)
