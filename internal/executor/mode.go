package executor

// Mode selects how aggressively the Executor runs: whether it mutates
// at all, and how strict the locator chain is about bailing out on a
// miss.
type Mode string

const (
	// ModeNormal mutates and saves on completion.
	ModeNormal Mode = "normal"
	// ModeDryRun runs gate and locate steps so locator errors surface,
	// but never mutates or saves.
	ModeDryRun Mode = "dry_run"
	// ModeSafe is ModeNormal plus a mandatory pre-run backup and a
	// stricter locator policy: no fuzzy fallback, a locator miss fails
	// the task instead of falling back to the document start.
	ModeSafe Mode = "safe"
)
