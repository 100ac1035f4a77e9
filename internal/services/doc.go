// Package services defines the shared error vocabulary and the external
// collaborators teamnotify talks to.
//
// Key responsibilities:
//   - Sentinel error markers plus the Wrap helper that tag failures with the
//     component and operation that produced them.
//   - ExitCode, the single classification from an error to a process status.
//   - Subpackages github and slack wrap the source-control and messaging APIs
//     behind small interfaces the pipeline can fake in tests.
package services
