package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	puts    []*s3.PutObjectInput
	bodies  map[string]string
	acls    []*s3.PutObjectAclInput
	deletes []*s3.DeleteObjectInput
	aclErr  error
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, in)
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if f.bodies == nil {
		f.bodies = map[string]string{}
	}
	f.bodies[aws.ToString(in.Key)] = string(b)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) PutObjectAcl(ctx context.Context, in *s3.PutObjectAclInput, optFns ...func(*s3.Options)) (*s3.PutObjectAclOutput, error) {
	if f.aclErr != nil {
		return nil, f.aclErr
	}
	f.acls = append(f.acls, in)
	return &s3.PutObjectAclOutput{}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, in)
	return &s3.DeleteObjectOutput{}, nil
}

// onlyReader hides any Seek method of the wrapped reader.
type onlyReader struct{ r io.Reader }

func (o onlyReader) Read(p []byte) (int, error) { return o.r.Read(p) }

func stringsReader(s string) io.Reader { return strings.NewReader(s) }

func TestS3StoragePutPublishDelete(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{}
	s := newS3Storage(fake, "shop", "https://s3.eu-west-1.amazonaws.com")

	require.NoError(t, s.Put(ctx, "k-oak.png", onlyReader{stringsReader("oak")}, -1, "image/png"))
	require.Len(t, fake.puts, 1)
	require.Equal(t, "shop", aws.ToString(fake.puts[0].Bucket))
	require.Equal(t, "image/png", aws.ToString(fake.puts[0].ContentType))
	require.Equal(t, int64(3), aws.ToInt64(fake.puts[0].ContentLength))
	require.Equal(t, "oak", fake.bodies["k-oak.png"])

	require.NoError(t, s.MakePublic(ctx, "k-oak.png"))
	require.Len(t, fake.acls, 1)
	require.Equal(t, types.ObjectCannedACLPublicRead, fake.acls[0].ACL)

	require.NoError(t, s.Delete(ctx, "k-oak.png"))
	require.Equal(t, "k-oak.png", aws.ToString(fake.deletes[0].Key))

	require.Equal(t, "https://s3.eu-west-1.amazonaws.com/shop/k-oak.png", s.PublicURL("k-oak.png"))
}

func TestS3StoragePublishError(t *testing.T) {
	boom := errors.New("access denied")
	s := newS3Storage(&fakeS3{aclErr: boom}, "shop", "")
	require.ErrorIs(t, s.MakePublic(context.Background(), "k"), boom)
}
