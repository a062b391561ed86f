package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/ragstream/artifact"
)

type apiError struct {
	code string
	msg  string
}

func (e *apiError) Error() string                 { return e.msg }
func (e *apiError) ErrorCode() string             { return e.code }
func (e *apiError) ErrorMessage() string          { return e.msg }
func (e *apiError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

var (
	errNoSuchKey = &apiError{code: "NoSuchKey", msg: "no such key"}
	errNotFound  = &apiError{code: "NotFound", msg: "not found"}
)

// mockS3 is a thread-safe in-memory S3 backend. Listing pages hold at most
// pageSize keys so continuation handling is exercised.
type mockS3 struct {
	mu       sync.Mutex
	objects  map[string][]byte
	pageSize int
	putErr   error
}

func newMockS3() *mockS3 {
	return &mockS3{objects: make(map[string][]byte), pageSize: 2}
}

func (m *mockS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[*in.Key]
	if !ok {
		return nil, errNoSuchKey
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *mockS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.putErr != nil {
		return nil, m.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *mockS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (m *mockS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[*in.Key]; !ok {
		return nil, errNotFound
	}
	return &s3.HeadObjectOutput{}, nil
}

func (m *mockS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if in.ContinuationToken != nil {
		_, _ = fmt.Sscanf(*in.ContinuationToken, "%d", &start)
	}
	end := start + m.pageSize
	if end > len(keys) {
		end = len(keys)
	}

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(end < len(keys))}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
	}
	if end < len(keys) {
		out.NextContinuationToken = aws.String(fmt.Sprintf("%d", end))
	}
	return out, nil
}

func TestStore_SaveGet(t *testing.T) {
	ctx := context.Background()
	mock := newMockS3()
	store := New(mock, "bucket", "/uploads/")

	require.NoError(t, store.Save(ctx, "s1", "report.pdf", []byte("%PDF")))

	assert.Contains(t, mock.objects, "uploads/s1/report.pdf")

	data, err := store.Get(ctx, "s1", "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))
}

func TestStore_GetMissing(t *testing.T) {
	store := New(newMockS3(), "bucket", "")

	_, err := store.Get(context.Background(), "s1", "missing")
	assert.ErrorIs(t, err, artifact.ErrNotFound)
}

func TestStore_ListPaginates(t *testing.T) {
	ctx := context.Background()
	mock := newMockS3()
	store := New(mock, "bucket", "p")

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, store.Save(ctx, "s1", id, []byte(id)))
	}
	require.NoError(t, store.Save(ctx, "s2", "z", []byte("z")))

	ids, err := store.List(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids)

	ids, err = store.List(ctx, "empty")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := New(newMockS3(), "bucket", "")

	require.NoError(t, store.Save(ctx, "s1", "a", []byte("1")))
	require.NoError(t, store.Delete(ctx, "s1", "a"))
	assert.ErrorIs(t, store.Delete(ctx, "s1", "a"), artifact.ErrNotFound)
}

func TestStore_SaveError(t *testing.T) {
	mock := newMockS3()
	mock.putErr = errors.New("access denied")
	store := New(mock, "bucket", "")

	err := store.Save(context.Background(), "s1", "a", []byte("1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(errNoSuchKey))
	assert.True(t, isNotFound(fmt.Errorf("wrapped: %w", errNotFound)))
	assert.False(t, isNotFound(&apiError{code: "AccessDenied"}))
	assert.False(t, isNotFound(errors.New("plain")))
}
