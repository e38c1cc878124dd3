// Package sync implements rule-set installation into a destination
// rules directory. A run is strictly sequential: scan, then decisions,
// then apply, then approved alias cleanup.
//
// # Decisions
//
// The synchronizer never guesses on a conflict. Decisions come from a
// DecisionProvider:
//
//	report, err := sync.New(provider).Install(sync.Options{
//	    SourceDir: "./rules",
//	    DestDir:   destDir,
//	})
//
// A conflict with no decision is skipped, never written. Passing a nil
// provider therefore skips every conflict.
//
// # Report
//
// Install returns a Report with the terminal outcome of every file:
//
//	if !report.Success() {
//	    for _, f := range report.Failed() {
//	        log.Printf("%s: %v", f.Path, f.Err)
//	    }
//	}
//
// Only an unreadable source directory aborts a run; write failures,
// unreadable individual files, and missing decisions are recorded
// per-file and the rest of the batch proceeds.
package sync
