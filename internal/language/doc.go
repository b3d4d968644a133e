// Package language normalizes the language tags attached to transcripts and
// names them for display.
package language
