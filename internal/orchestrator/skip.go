package orchestrator

// SkipUpdateFlag disables the startup check when present in the process
// arguments.
const SkipUpdateFlag = "--skip-update"

// ShouldSkip reports whether the startup check must be skipped: always in
// debug builds, otherwise when args contains SkipUpdateFlag exactly.
func ShouldSkip(debug bool, args []string) bool {
	if debug {
		return true
	}
	for _, arg := range args {
		if arg == SkipUpdateFlag {
			return true
		}
	}
	return false
}
