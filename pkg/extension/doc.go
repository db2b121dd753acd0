// Package extension holds the process-wide extension singleton, the future
// through which it is published, and the public API handed to other
// extensions once activation completes.
//
// Consumers that start before activation finishes await the Future; every
// waiter observes the same *Extension.
package extension
