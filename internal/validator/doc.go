// Package validator diffs a pre- and post-execution Structure,
// classifies each difference as authorized or not (Gate L4), and
// decides whether a run must roll back.
//
// Known edge case, preserved from the source rather than fixed:
// ClassifyChange keys a candidate task's plausibility off the range
// the Executor resolved its Locator to when the task ran, not the
// change's live post-execution element. A find locator whose search
// text no longer matches anything in the post-snapshot (because an
// earlier task already rewrote it) can under-authorize a change its
// task legitimately caused. A stricter design would re-resolve every
// executed task's locator against the post-snapshot before
// classifying; this package does not, matching the documented source
// behavior.
package validator
