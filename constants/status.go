package constants

// RecordStatus is the canonical outcome for one applicant folder.
type RecordStatus string

// Stable values (these exact strings appear in the cache file and exports).
const (
	StatusSuccess     RecordStatus = "success"     // fields extracted
	StatusNoForm      RecordStatus = "no_form"     // folder had no candidate file
	StatusFailed      RecordStatus = "failed"      // text extracted but zero fields found
	StatusError       RecordStatus = "error"       // extraction or parsing raised
	StatusUnsupported RecordStatus = "unsupported" // selected file kind cannot be extracted
)
