package s3

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/signup/internal/kv"
)

// fakeAPI is an in-memory bucket keyed by object key.
type fakeAPI struct {
	objects     map[string]string
	contentType map[string]string
	failWith    error
	deleteErr   error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{objects: map[string]string{}, contentType: map[string]string{}}
}

func (f *fakeAPI) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func (f *fakeAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = string(data)
	f.contentType[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeAPI) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	s := NewWithClient(api, "bucket", "signup/")

	_, ok, err := s.Get(ctx, "usuarios")
	require.NoError(t, err)
	assert.False(t, ok, "missing object reads as absent")

	require.NoError(t, s.Set(ctx, "usuarios", `[{"name":"Ana","email":"ana@x.com","age":30}]`))
	assert.Contains(t, api.objects, "signup/usuarios.json")
	assert.Equal(t, "application/json", api.contentType["signup/usuarios.json"])

	v, ok, err := s.Get(ctx, "usuarios")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"name":"Ana","email":"ana@x.com","age":30}]`, v)

	require.NoError(t, s.Remove(ctx, "usuarios"))
	assert.Empty(t, api.objects)
	require.NoError(t, s.Remove(ctx, "usuarios"))
	require.NoError(t, s.Close())
}

func TestStore_PropagatesErrors(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.failWith = errors.New("network down")
	s := NewWithClient(api, "bucket", "")

	_, _, err := s.Get(ctx, "usuarios")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `get "usuarios": network down`)

	err = s.Set(ctx, "usuarios", "[]")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `set "usuarios"`)
}

func TestStore_RemoveIgnoresNotFound(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.deleteErr = &smithy.GenericAPIError{Code: "NoSuchKey", Message: "gone"}
	s := NewWithClient(api, "bucket", "")
	assert.NoError(t, s.Remove(ctx, "usuarios"))

	api.deleteErr = &smithy.GenericAPIError{Code: "AccessDenied", Message: "nope"}
	assert.Error(t, s.Remove(ctx, "usuarios"))
}

func TestStore_EmptyKey(t *testing.T) {
	ctx := context.Background()
	s := NewWithClient(newFakeAPI(), "bucket", "")

	_, _, err := s.Get(ctx, "")
	assert.ErrorIs(t, err, kv.ErrEmptyKey)
	assert.ErrorIs(t, s.Set(ctx, "", "v"), kv.ErrEmptyKey)
	assert.ErrorIs(t, s.Remove(ctx, ""), kv.ErrEmptyKey)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(&types.NoSuchKey{}))
	assert.True(t, isNotFound(&types.NotFound{}))
	assert.True(t, isNotFound(&smithy.GenericAPIError{Code: "NotFound"}))
	assert.False(t, isNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isNotFound(errors.New("plain")))
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket required")
}

func TestNew_BuildsClient(t *testing.T) {
	s, err := New(context.Background(), Config{
		Bucket:          "bucket",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		PathStyle:       true,
		Prefix:          "p/",
	})
	require.NoError(t, err)
	assert.Equal(t, "bucket", s.bucket)
	assert.Equal(t, "p/usuarios.json", s.objectKey("usuarios"))
}
