// Package services defines shared utilities consumed by the transport client,
// the resilient gateway, and the curation/export workflows.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that classify failures as
//     connectivity, remote rejection, client validation, or preview errors.
//   - Context helpers that stamp request correlation IDs and tracked asset IDs
//     for logging.
//
// Use these helpers when wiring new workflow code so error classification and
// observability stay uniform across commands.
package services
