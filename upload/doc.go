// Package upload schedules batched file submissions.
//
// Scheduler.Run validates every candidate file before any network activity,
// aggregates all rejections into one notice, then submits the accepted files
// in sequential batches of at most Concurrency files. Submissions within a
// batch run concurrently; the next batch starts only after every submission
// of the current one settled. A failing submission never cancels its
// siblings. After the last batch one terminal notification reports the
// succeeded and failed counts and classifies the outcome.
//
// Submitters are pluggable: the client package's file service submits over
// HTTP, StoreSubmitter writes into a core.ArtifactStore.
package upload
