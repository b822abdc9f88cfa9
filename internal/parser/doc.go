// Package parser is the runtime of a compiled stream: the node tree, the per-session
// occurrence state, the record matcher and the engines that turn raw records into bound
// objects and back.
//
// A *Stream is built once by the compiler and never modified afterwards, so one stream
// serves any number of concurrent sessions. Everything that changes while reading or
// writing (occurrence counts, group cursors, dynamic occurrence values) lives in a State
// owned by a single Session and indexed by node ID.
//
// Matching follows a first-declared-wins rule. Within a group the matcher first offers
// the record to the child that matched last, then scans forward from the current order
// position, and finally starts a new iteration of the group when all of its mandatory
// children are satisfied. Sequencing violations surface as *UnexpectedRecordError,
// *UnidentifiedRecordError and *MissingRecordError; invalid field data surfaces as
// *InvalidRecordError carrying a RecordContext with every field error.
package parser
