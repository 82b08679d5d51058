package storage

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"cloudvault/apperr"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3Storage keeps blobs as objects under Bucket.Path inside the S3 bucket Bucket.Name.
// Directories do not exist in S3, a "tree" is every key under dir + "/".
type S3Storage struct {
	bucket   Bucket
	s3Client s3iface.S3API
}

func (b *Bucket) CreateSVC() (*s3.S3, error) {
	cfg := &aws.Config{
		Region:      aws.String(b.Region),
		Credentials: credentials.NewStaticCredentials(b.S3Key, b.S3Secret, ""),
	}
	if b.Endpoint != "" {
		cfg.Endpoint = aws.String(b.Endpoint)
		cfg.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	return s3.New(sess), nil
}

func NewS3Storage(bucket *Bucket) (*S3Storage, error) {
	svc, err := bucket.CreateSVC()
	if err != nil {
		return nil, err
	}
	return NewS3StorageWithClient(bucket, svc), nil
}

func NewS3StorageWithClient(bucket *Bucket, client s3iface.S3API) *S3Storage {
	return &S3Storage{bucket: *bucket, s3Client: client}
}

func (s *S3Storage) GetBucket() *Bucket {
	return &s.bucket
}

func (s *S3Storage) key(path string) (string, error) {
	rel, err := cleanPath(path)
	if err != nil {
		return "", err
	}
	return s.bucket.GetRemotePath(rel), nil
}

func (s *S3Storage) EnsureDir(dir string) error {
	return nil
}

func (s *S3Storage) Save(path string, reader io.Reader) (int64, error) {
	key, err := s.key(path)
	if err != nil {
		return 0, err
	}
	uploader := s3manager.NewUploaderWithClient(s.s3Client)
	_, err = uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(s.bucket.Name),
		Key:    aws.String(key),
		Body:   reader,
	})
	if err != nil {
		return 0, apperr.Wrap(apperr.ErrIOFailure, err)
	}
	head, err := s.s3Client.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(s.bucket.Name),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, apperr.Wrap(apperr.ErrIOFailure, err)
	}
	return aws.Int64Value(head.ContentLength), nil
}

func (s *S3Storage) Open(path string) (io.ReadCloser, error) {
	key, err := s.key(path)
	if err != nil {
		return nil, err
	}
	resp, err := s.s3Client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket.Name),
		Key:    aws.String(key),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, apperr.Wrap(apperr.ErrNotFound, err)
		}
		return nil, apperr.Wrap(apperr.ErrIOFailure, err)
	}
	return resp.Body, nil
}

// Delete succeeds for missing keys, S3 does not report them
func (s *S3Storage) Delete(path string) error {
	key, err := s.key(path)
	if err != nil {
		return err
	}
	_, err = s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket.Name),
		Key:    aws.String(key),
	})
	if err != nil {
		return apperr.Wrap(apperr.ErrIOFailure, err)
	}
	return nil
}

func (s *S3Storage) DeleteTree(dir string) error {
	prefix, err := s.key(dir)
	if err != nil {
		return err
	}
	prefix = strings.TrimSuffix(prefix, "/") + "/"

	var deleteErr error
	err = s.s3Client.ListObjectsV2Pages(&s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket.Name),
		Prefix: aws.String(prefix),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		if len(page.Contents) == 0 {
			return true
		}
		objects := make([]*s3.ObjectIdentifier, 0, len(page.Contents))
		for _, obj := range page.Contents {
			objects = append(objects, &s3.ObjectIdentifier{Key: obj.Key})
		}
		// A listing page holds at most 1000 keys, the DeleteObjects limit
		var out *s3.DeleteObjectsOutput
		out, deleteErr = s.s3Client.DeleteObjects(&s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket.Name),
			Delete: &s3.Delete{Objects: objects, Quiet: aws.Bool(true)},
		})
		// Quiet mode answers 200 and lists only the keys it could not remove
		if deleteErr == nil && out != nil && len(out.Errors) > 0 {
			first := out.Errors[0]
			deleteErr = fmt.Errorf("%d objects not deleted, first %s: %s %s", len(out.Errors),
				aws.StringValue(first.Key), aws.StringValue(first.Code), aws.StringValue(first.Message))
		}
		return deleteErr == nil
	})
	if err == nil {
		err = deleteErr
	}
	if err != nil {
		return apperr.Wrap(apperr.ErrIOFailure, err)
	}
	return nil
}
