// Package api defines the data exchanged with the remote curation service:
// assets, upload statuses, transcripts and segments, quotes, export jobs, and
// the request payloads that create or mutate them.
//
// Values here mirror the latest server representation. The client never owns
// authoritative state, so callers replace whole values on every reload or
// mutation instead of merging fields locally.
package api
