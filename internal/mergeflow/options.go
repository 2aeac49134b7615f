package mergeflow

// Options controls a single run. It is built once by the command layer and
// passed by value.
type Options struct {
	Quiet      bool   // Save every proposal without asking
	AutoCommit bool   // Commit without asking
	Document   bool   // Ask the model to add documentation comments
	NoCommit   bool   // Never offer a commit
	Pager      bool   // Show diffs in a full-screen pager
	Summary    bool   // Print a markdown summary after the run
	File       string // Resolve only this file (relative to the working directory)
}
