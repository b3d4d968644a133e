// Command quarry is the command-line client for the quote curation service.
//
// It uploads media and follows its processing, edits transcripts, curates
// extracted quotes, and submits, previews and downloads exports. When the
// service cannot be reached the process switches to a built-in demo dataset
// for the rest of the run and says so on stderr.
//
// Persistent state (login token, export selection, last tracked upload)
// lives in the workspace database under paths.state_dir.
package main
