// Package playlist defines the persisted playlist model.
//
// A playlist is the sole artifact of a scan: a JSON array of Track objects,
// sorted by title, rewritten in whole after every run. Reads are tolerant by
// design — a playlist that is missing or corrupt loads as empty rather than
// failing, so clients polling for a playlist that has never been generated
// always receive a well-formed array.
package playlist
