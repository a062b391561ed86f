// Package artifact contains concrete implementations of core.ArtifactStore.
//
// The canonical ArtifactStore interface lives in the core package to avoid
// dependency cycles and keep domain contracts central. The upload scheduler
// stores accepted files through it when the configured target is not the
// remote file service. This package provides the in-process store; the s3
// subpackage provides a durable one backed by Amazon S3.
//
// Callers should depend on the core interface rather than concrete types so
// they can substitute alternative persistence layers in tests or production.
package artifact
