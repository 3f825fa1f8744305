package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBucket struct {
	objects map[string][]byte
	types   map[string]string
}

func (m *memBucket) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.objects[*in.Bucket+"/"+*in.Key] = data
	m.types[*in.Key] = *in.ContentType
	return &s3.PutObjectOutput{}, nil
}

func (m *memBucket) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := m.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestPutJSONAndGetFile(t *testing.T) {
	t.Parallel()

	b := &memBucket{objects: map[string][]byte{}, types: map[string]string{}}
	key := ExportKey("abc")
	require.Equal(t, "exports/abc.json", key)

	require.NoError(t, PutJSON(context.Background(), b, "metas", key, []byte(`{"ok":true}`)))
	assert.Equal(t, "application/json", b.types[key])

	got, err := GetFile(context.Background(), b, "metas", key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(got))

	_, err = GetFile(context.Background(), b, "metas", "exports/missing.json")
	assert.Error(t, err)
}

func TestWithPathPrefix(t *testing.T) {
	t.Parallel()

	got, err := withPathPrefix("https://files.unl.edu.ar/metas/exports/a.json?X-Amz-Signature=1", "/s3")
	require.NoError(t, err)
	assert.Equal(t, "https://files.unl.edu.ar/s3/metas/exports/a.json?X-Amz-Signature=1", got)

	got, err = withPathPrefix("https://files.unl.edu.ar/x", "")
	require.NoError(t, err)
	assert.Equal(t, "https://files.unl.edu.ar/x", got)
}
