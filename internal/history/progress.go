package history

// ProgressSink receives scan progress. One sink is shared by every worker of
// a scan, so implementations must be safe for concurrent use.
type ProgressSink interface {
	// Begin announces how many repositories the scan covers.
	Begin(total int)
	// Label updates the status text of one worker slot.
	Label(slot int, text string)
	// Tick marks one repository finished, successfully or not.
	Tick()
	// Log reports a repository-level failure without ending the scan.
	Log(path, msg string, err error)
}

// nopSink stands in when the caller passes a nil sink.
type nopSink struct{}

func (nopSink) Begin(int)                 {}
func (nopSink) Label(int, string)         {}
func (nopSink) Tick()                     {}
func (nopSink) Log(string, string, error) {}

// Compile-time interface conformance check.
var _ ProgressSink = nopSink{}
