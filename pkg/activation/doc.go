// Package activation runs the extension's start-up sequence: prepare the
// global directory, register editor affordances, publish the extension
// singleton, apply one-time migrations, report first installs and show
// pending notices.
//
// Only capability registration can fail activation. Every other step logs
// its error and moves on.
package activation
