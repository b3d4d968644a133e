// Package curation holds the quote review state behind the curation flow.
//
// Engine loads a server-filtered quote collection (status and minimum
// confidence), refines it client-side with ApplyTagFilter, and mediates
// approve, reject, tag, edit and delete mutations. Every mutation replaces
// the held entry wholesale with the server's response, at the same position,
// so the service stays the single source of truth.
//
// Selection is the ordered set of quote IDs chosen for export.
//
// Engine and Selection are owned by one caller and are not safe for
// concurrent mutation.
package curation
