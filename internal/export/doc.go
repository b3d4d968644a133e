// Package export builds, submits and follows export jobs, and turns the
// output of completed jobs into previews and downloaded files.
package export
