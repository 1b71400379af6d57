package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	objects map[string][]byte
	getErr  error
	putErr  error
	puts    []*s3.PutObjectInput
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: make(map[string][]byte)}
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "missing"}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func TestS3StoreMissingObjectIsEmpty(t *testing.T) {
	store := newS3Store(newFakeObjects(), "news", "")

	archive, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, archive)
	assert.Equal(t, "news_data.json", store.key)
}

func TestS3StoreSaveLoad(t *testing.T) {
	objects := newFakeObjects()
	store := newS3Store(objects, "news", "digest/archive.json")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleArchive()))
	require.Len(t, objects.puts, 1)
	assert.Equal(t, "application/json; charset=utf-8", aws.ToString(objects.puts[0].ContentType))

	want, err := Encode(sampleArchive())
	require.NoError(t, err)
	assert.Equal(t, want, objects.objects["news/digest/archive.json"])

	archive, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleArchive(), archive)
}

func TestS3StoreErrorsPropagate(t *testing.T) {
	objects := newFakeObjects()
	objects.getErr = &smithy.GenericAPIError{Code: "AccessDenied"}
	objects.putErr = errors.New("network down")
	store := newS3Store(objects, "news", "k")

	_, err := store.Load(context.Background())
	assert.Error(t, err)
	assert.Error(t, store.Save(context.Background(), sampleArchive()))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(&smithy.GenericAPIError{Code: "NotFound"}))
	assert.True(t, isNotFound(&smithy.GenericAPIError{Code: "NoSuchKey"}))
	assert.False(t, isNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isNotFound(errors.New("boom")))
}
