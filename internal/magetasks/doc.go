// Package magetasks provides organized build tasks for nin and cb.
//
// This package contains the build, test, lint and quality tasks used by
// the Magefile. Commands run through the same session step runner the
// binaries use for their clean step, so output is streamed as it arrives.
package magetasks
