package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dmitrijs2005/aora/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	headErr error
	getErr  error
	size    int64

	LastKey    string
	LastBucket string
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.LastBucket, f.LastKey = aws.ToString(in.Bucket), aws.ToString(in.Key)
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(f.size)}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.LastBucket, f.LastKey = aws.ToString(in.Bucket), aws.ToString(in.Key)
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("body"))}, nil
}

type fakePresigner struct {
	err error

	LastContentType string
	LastExpires     time.Duration
}

func (p *fakePresigner) expires(optFns []func(*s3.PresignOptions)) {
	var o s3.PresignOptions
	for _, fn := range optFns {
		fn(&o)
	}
	p.LastExpires = o.Expires
}

func (p *fakePresigner) PresignPutObject(_ context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.expires(optFns)
	p.LastContentType = aws.ToString(in.ContentType)
	return &v4.PresignedHTTPRequest{URL: "https://s3/" + aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key) + "?put"}, nil
}

func (p *fakePresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	if p.err != nil {
		return nil, p.err
	}
	p.expires(optFns)
	return &v4.PresignedHTTPRequest{URL: "https://s3/" + aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key) + "?get"}, nil
}

func TestS3Store_Presign(t *testing.T) {
	p := &fakePresigner{}
	s := &S3Store{bucket: "aora", client: &fakeS3{}, presigner: p}
	ctx := context.Background()

	url, err := s.PresignPut(ctx, "k/1", "image/png", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://s3/aora/k/1?put", url)
	assert.Equal(t, "image/png", p.LastContentType)
	assert.Equal(t, time.Minute, p.LastExpires)

	url, err = s.PresignGet(ctx, "k/1", 2*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://s3/aora/k/1?get", url)
	assert.Equal(t, 2*time.Minute, p.LastExpires)

	p.err = errors.New("boom")
	_, err = s.PresignPut(ctx, "k/1", "", time.Minute)
	require.ErrorContains(t, err, "presign put")
}

func TestS3Store_HeadAndGet(t *testing.T) {
	c := &fakeS3{size: 42}
	s := &S3Store{bucket: "aora", client: c, presigner: &fakePresigner{}}
	ctx := context.Background()

	n, err := s.Head(ctx, "k/1")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
	assert.Equal(t, "aora", c.LastBucket)

	body, err := s.Get(ctx, "k/1")
	require.NoError(t, err)
	b, _ := io.ReadAll(body)
	assert.Equal(t, "body", string(b))

	c.headErr = &types.NotFound{}
	_, err = s.Head(ctx, "k/2")
	require.ErrorIs(t, err, common.ErrNotFound)

	c.getErr = &types.NoSuchKey{}
	_, err = s.Get(ctx, "k/2")
	require.ErrorIs(t, err, common.ErrNotFound)

	c.getErr = errors.New("connection refused")
	_, err = s.Get(ctx, "k/2")
	require.ErrorIs(t, err, common.ErrUnavailable)
}

func TestNewS3Store_LoadConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(context.Context, ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	_, err := NewS3Store(context.Background(), testConfig())
	require.ErrorContains(t, err, "load aws config")
}

func TestNewS3Store_Options(t *testing.T) {
	origNew := newS3ClientFromConfig
	t.Cleanup(func() { newS3ClientFromConfig = origNew })

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return origNew(cfg, optFns...)
	}

	cfg := testConfig()
	s, err := NewS3Store(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.S3Bucket, s.bucket)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, cfg.S3BaseEndpoint, aws.ToString(opts.BaseEndpoint))
}
