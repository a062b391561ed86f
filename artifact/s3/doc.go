// Package s3 provides a core.ArtifactStore backed by Amazon S3 or any
// S3-compatible object store (MinIO, R2, etc.).
//
// Artifacts are stored under "<prefix>/<sessionID>/<artifactID>". The caller
// configures the client (credentials, region, endpoint); the CLI builds one
// from the default AWS credential chain.
package s3
