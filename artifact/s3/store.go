package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/hupe1980/ragstream/artifact"
	"github.com/hupe1980/ragstream/core"
)

// Client abstracts the S3 API operations used by Store.
// The *s3.Client type satisfies this interface.
type Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Store implements core.ArtifactStore on top of S3.
type Store struct {
	client Client
	bucket string
	prefix string
}

// New creates an S3-backed artifact store. Prefix is prepended to all object
// keys; pass "" for no prefix.
func New(client Client, bucket, prefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// sessionPrefix returns the key prefix of a session, ending in "/".
func (s *Store) sessionPrefix(sessionID string) string {
	if s.prefix == "" {
		return sessionID + "/"
	}
	return s.prefix + "/" + sessionID + "/"
}

func (s *Store) key(sessionID, artifactID string) string {
	return s.sessionPrefix(sessionID) + artifactID
}

// Save uploads the artifact bytes via PutObject, overwriting any previous
// version.
func (s *Store) Save(ctx context.Context, sessionID, artifactID string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(sessionID, artifactID)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("s3: save %s/%s: %w", sessionID, artifactID, err)
	}
	return nil
}

// Get downloads the artifact via GetObject. A missing key yields
// artifact.ErrNotFound.
func (s *Store) Get(ctx context.Context, sessionID, artifactID string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(sessionID, artifactID)),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, artifact.ErrNotFound
		}
		return nil, fmt.Errorf("s3: get %s/%s: %w", sessionID, artifactID, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3: read %s/%s: %w", sessionID, artifactID, err)
	}
	return data, nil
}

// List returns the artifact ids of a session, following continuation tokens.
func (s *Store) List(ctx context.Context, sessionID string) ([]string, error) {
	prefix := s.sessionPrefix(sessionID)
	ids := []string{}

	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("s3: list %s: %w", sessionID, err)
		}
		for _, obj := range out.Contents {
			if id := strings.TrimPrefix(aws.ToString(obj.Key), prefix); id != "" {
				ids = append(ids, id)
			}
		}
		if !aws.ToBool(out.IsTruncated) || out.NextContinuationToken == nil {
			return ids, nil
		}
		token = out.NextContinuationToken
	}
}

// Delete removes the artifact. S3 DeleteObject succeeds for missing keys, so
// existence is checked with HeadObject first to report artifact.ErrNotFound.
func (s *Store) Delete(ctx context.Context, sessionID, artifactID string) error {
	key := s.key(sessionID, artifactID)
	if _, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		if isNotFound(err) {
			return artifact.ErrNotFound
		}
		return fmt.Errorf("s3: head %s/%s: %w", sessionID, artifactID, err)
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("s3: delete %s/%s: %w", sessionID, artifactID, err)
	}
	return nil
}

// isNotFound reports whether err indicates the S3 object does not exist.
func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}

var _ core.ArtifactStore = (*Store)(nil)
