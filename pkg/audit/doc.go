// Package audit builds and persists tamper-evident records of conversation
// evaluations.
//
// A Record is content-addressed: the transcript and the verdict fields are
// hashed separately (TranscriptHash, ResultHash), and RecordHash binds
// them together with the record's identity and creation time. Verify
// recomputes the chain, so any post-hoc edit to a stored record is
// detectable. This is what lets operators use stored verdicts as
// certification evidence.
//
// Subpackages provide the storage backends (storage), export formats
// (export), and retention enforcement (retention). The Recorder in this
// package writes records asynchronously; persistence is best-effort and
// never fails the evaluation that produced the record.
package audit
