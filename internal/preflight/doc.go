// Package preflight provides readiness checks for the local directories and
// the remote curation service that quarry depends on.
//
// The CLI "quarry doctor" command runs RunAll and prints each Result; the
// "quarry status" dashboard uses CheckService on its own.
package preflight
