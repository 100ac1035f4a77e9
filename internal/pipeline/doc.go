// Package pipeline runs one notification pass for a commit.
//
// A run moves through start, check_trigger, then either skip or
// resolve_and_dispatch, and always ends in done. Repository coordinates, the
// commit ref, the trigger path and the info URL are explicit Params so a run
// can be exercised without any CI environment.
package pipeline
