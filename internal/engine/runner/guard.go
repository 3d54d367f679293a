package runner

// Guard runs fn and reports whether it completed without error.
// The error is absorbed; callers that want it reported log it inside fn.
// Panics are not recovered, so a panicking action still aborts the run.
func Guard(fn func() error) bool {
	return fn() == nil
}
