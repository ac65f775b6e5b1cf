package s3store

import (
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/sagarc03/bucketctl"
)

// KeyError is a per-key failure reported inside a DeleteObjects response.
type KeyError struct {
	Code    string
	Message string
}

func (e *KeyError) Error() string {
	switch {
	case e.Code == "":
		return e.Message
	case e.Message == "":
		return e.Code
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// classify tags a client error with bucketctl.ErrBackend, plus
// bucketctl.ErrNotFound when S3 reports a missing bucket.
func classify(op string, err error) error {
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return fmt.Errorf("%s: %w: %w: %w", op, bucketctl.ErrBackend, bucketctl.ErrNotFound, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if apiErr.ErrorCode() == "NoSuchBucket" {
			return fmt.Errorf("%s: %w: %w: %s", op, bucketctl.ErrBackend, bucketctl.ErrNotFound, apiErr.ErrorMessage())
		}
		return fmt.Errorf("%s: %w: %s: %s", op, bucketctl.ErrBackend, apiErr.ErrorCode(), apiErr.ErrorMessage())
	}

	return fmt.Errorf("%s: %w: %w", op, bucketctl.ErrBackend, err)
}
