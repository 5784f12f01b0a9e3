package blob

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Options configures NewS3Store. Zero values use the SDK defaults.
type S3Options struct {
	Region         string
	Endpoint       string // S3-compatible endpoint, e.g. MinIO
	ForcePathStyle bool
}

// S3Store is a Store backed by Amazon S3.
type S3Store struct {
	downloader *manager.Downloader
	uploader   *manager.Uploader
}

// NewS3Store builds a client from the default credential chain.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.ForcePathStyle
	})

	return &S3Store{
		downloader: manager.NewDownloader(client),
		uploader:   manager.NewUploader(client),
	}, nil
}

// Download fetches the object into localPath, truncating any existing file.
func (s *S3Store) Download(ctx context.Context, loc Locator, localPath string) error {
	file, err := os.Create(localPath)
	if err != nil {
		return &Error{Op: "download", Locator: loc, Code: CodeUnknown, Err: err}
	}
	defer file.Close()

	_, err = s.downloader.Download(ctx, file, &s3.GetObjectInput{
		Bucket: aws.String(loc.Container()),
		Key:    aws.String(loc.Key()),
	})
	if err != nil {
		return classifyS3Error("download", loc, err)
	}
	return file.Close()
}

// Upload puts the content of localPath at loc.
func (s *S3Store) Upload(ctx context.Context, localPath string, loc Locator) error {
	file, err := os.Open(localPath)
	if err != nil {
		return &Error{Op: "upload", Locator: loc, Code: CodeUnknown, Err: err}
	}
	defer file.Close()

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(loc.Container()),
		Key:    aws.String(loc.Key()),
		Body:   file,
	})
	if err != nil {
		return classifyS3Error("upload", loc, err)
	}
	return nil
}

// classifyS3Error maps an SDK failure to an Error. The HTTP status is preferred
// as the code, then the API error code.
func classifyS3Error(op string, loc Locator, err error) *Error {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return NotFoundError(op, loc, err)
	}

	code := CodeUnknown
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() != "" {
		code = apiErr.ErrorCode()
	}
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() != 0 {
		code = strconv.Itoa(respErr.HTTPStatusCode())
	}

	if code == CodeNotFound {
		return NotFoundError(op, loc, err)
	}
	return &Error{Op: op, Locator: loc, Code: code, Err: err}
}
