// Package digest orchestrates one run of the pipeline: list unread
// messages, fetch them, summarize, send the digest and acknowledge the
// sources.
//
// The run is strictly sequential and moves forward only:
//
//	Start -> Authenticated -> Listed -> {empty: Done}
//	      -> Fetched -> Summarized -> Sent -> Acknowledged -> Done
//
// An empty inbox ends the run successfully without a digest. A failed send
// aborts the run before any message is marked as read, so the next
// scheduled run picks the same messages up again.
package digest
