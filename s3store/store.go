package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sagarc03/bucketctl"
)

// DefaultRegion is used when neither the options nor the AWS environment
// name a region.
const DefaultRegion = "us-east-1"

// API is the subset of the S3 client used by Store. Uploads go through
// the S3 upload manager, so the multipart calls are part of it.
type API interface {
	manager.UploadAPIClient
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// Options configures the S3 client.
// Empty fields fall back to the AWS SDK's default resolution chain
// (environment, shared config and credentials files, instance metadata).
type Options struct {
	Endpoint     string // custom endpoint for S3-compatible services
	Region       string
	AccessKey    string
	SecretKey    string
	SessionToken string
	Profile      string // shared config profile
	UsePathStyle bool
}

// Store implements bucketctl.ObjectStore on an S3 API.
type Store struct {
	client   API
	uploader *manager.Uploader
}

// New loads the AWS configuration and creates a Store.
// Static credentials are used when both AccessKey and SecretKey are set.
func New(ctx context.Context, opts Options) (*Store, error) {
	loadOpts := []func(*config.LoadOptions) error{}
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, opts.SessionToken),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("new s3 store: load aws config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	endpoint, err := parseEndpoint(opts.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("new s3 store: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = opts.UsePathStyle
		if endpoint != nil {
			o.BaseEndpoint = aws.String(endpoint.String())
			// Many S3-compatible services reject the trailing checksums the
			// SDK sends by default.
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
			o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
		}
	})

	slog.Debug("s3 client configured",
		"region", cfg.Region, "endpoint", opts.Endpoint, "path_style", opts.UsePathStyle)

	return NewWithClient(client)
}

// NewWithClient creates a Store around an existing client.
func NewWithClient(client API) (*Store, error) {
	if client == nil {
		return nil, errors.New("new s3 store: client is required")
	}
	return &Store{
		client:   client,
		uploader: manager.NewUploader(client),
	}, nil
}

// ListPage issues one ListObjectsV2 request.
func (s *Store) ListPage(ctx context.Context, q bucketctl.PageQuery) (bucketctl.Page, error) {
	in := &s3.ListObjectsV2Input{
		Bucket: aws.String(q.Bucket),
	}
	if q.Prefix != "" {
		in.Prefix = aws.String(q.Prefix)
	}
	if q.ContinuationToken != "" {
		in.ContinuationToken = aws.String(q.ContinuationToken)
	}
	if q.MaxKeys > 0 {
		in.MaxKeys = aws.Int32(q.MaxKeys)
	}

	out, err := s.client.ListObjectsV2(ctx, in)
	if err != nil {
		return bucketctl.Page{}, classify("list objects", err)
	}

	page := bucketctl.Page{
		Objects: make([]bucketctl.ObjectInfo, 0, len(out.Contents)),
	}
	for _, obj := range out.Contents {
		info := bucketctl.ObjectInfo{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			ETag:         aws.ToString(obj.ETag),
			LastModified: aws.ToTime(obj.LastModified),
			StorageClass: string(obj.StorageClass),
		}
		page.Objects = append(page.Objects, info)
	}

	if aws.ToBool(out.IsTruncated) {
		page.NextToken = aws.ToString(out.NextContinuationToken)
	}

	return page, nil
}

// Put uploads the body through the upload manager. Bodies below the
// manager's part size are sent as a single PutObject request. The
// returned location is the URL of the request that stored the object.
func (s *Store) Put(ctx context.Context, in bucketctl.PutInput) (bucketctl.PutOutput, error) {
	req := &s3.PutObjectInput{
		Bucket:        aws.String(in.Bucket),
		Key:           aws.String(in.Key),
		Body:          bytes.NewReader(in.Body),
		ContentLength: aws.Int64(int64(len(in.Body))),
	}
	if in.ContentType != "" {
		req.ContentType = aws.String(in.ContentType)
	}

	out, err := s.uploader.Upload(ctx, req)
	if err != nil {
		var multiErr manager.MultiUploadFailure
		if errors.As(err, &multiErr) {
			slog.Warn("multipart upload failed", "bucket", in.Bucket, "key", in.Key, "upload_id", multiErr.UploadID())
		}
		return bucketctl.PutOutput{}, classify("put object", err)
	}

	return bucketctl.PutOutput{
		Location:  out.Location,
		ETag:      aws.ToString(out.ETag),
		VersionID: aws.ToString(out.VersionID),
	}, nil
}

// DeleteBatch issues one DeleteObjects request. Keys reported in the
// response's error list get a failed outcome; every other key is deleted.
func (s *Store) DeleteBatch(ctx context.Context, bucket string, keys []string) ([]bucketctl.DeleteOutcome, error) {
	if len(keys) == 0 {
		return []bucketctl.DeleteOutcome{}, nil
	}
	if len(keys) > bucketctl.MaxDeleteBatch {
		return nil, fmt.Errorf("delete objects: %w: %d keys exceeds limit of %d", bucketctl.ErrArgument, len(keys), bucketctl.MaxDeleteBatch)
	}

	ids := make([]types.ObjectIdentifier, len(keys))
	for i, k := range keys {
		ids[i] = types.ObjectIdentifier{Key: aws.String(k)}
	}

	out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &types.Delete{
			Objects: ids,
			Quiet:   aws.Bool(false),
		},
	})
	if err != nil {
		return nil, classify("delete objects", err)
	}

	failures := make(map[string]error, len(out.Errors))
	for _, e := range out.Errors {
		failures[aws.ToString(e.Key)] = &KeyError{
			Code:    aws.ToString(e.Code),
			Message: aws.ToString(e.Message),
		}
	}

	outcomes := make([]bucketctl.DeleteOutcome, len(keys))
	for i, k := range keys {
		if ferr, ok := failures[k]; ok {
			outcomes[i] = bucketctl.DeleteOutcome{Key: k, Err: ferr}
			continue
		}
		outcomes[i] = bucketctl.DeleteOutcome{Key: k, Deleted: true}
	}

	return outcomes, nil
}

func parseEndpoint(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("s3 endpoint: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("s3 endpoint: missing host in %q", raw)
	}
	return u, nil
}
