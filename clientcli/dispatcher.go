package clientcli

import (
	"context"
	"fmt"
	"io"

	"github.com/sagarc03/bucketctl"
)

// ConfirmFunc asks whether the matched keys of bucket may be deleted.
type ConfirmFunc func(bucket string, keys []string) (bool, error)

// Dispatcher runs parsed invocations against a Service and writes the
// results. Results go to Out and failures to Err.
type Dispatcher struct {
	Service   *bucketctl.Service
	Formatter Formatter
	Out       io.Writer
	Err       io.Writer

	// Confirm is consulted by interactive deletes. Interactive deletes
	// fail with ErrConfirmUnavailable when it is nil.
	Confirm ConfirmFunc
}

// Run executes inv. A returned error has already been written to Err.
func (d *Dispatcher) Run(ctx context.Context, inv Invocation) error {
	var err error
	switch inv := inv.(type) {
	case ListInvocation:
		err = d.list(ctx, inv)
	case ListFilterInvocation:
		err = d.listFiltered(ctx, inv)
	case UploadInvocation:
		err = d.upload(ctx, inv)
	case DeleteInvocation:
		err = d.delete(ctx, inv)
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownVerb, inv)
	}

	if err != nil {
		_ = d.Formatter.FormatError(d.Err, err)
	}
	return err
}

func (d *Dispatcher) list(ctx context.Context, inv ListInvocation) error {
	result, err := d.Service.List(ctx, inv.Bucket, inv.Prefix, inv.Options)
	if err != nil {
		return err
	}
	return d.Formatter.FormatList(d.Out, &result)
}

func (d *Dispatcher) listFiltered(ctx context.Context, inv ListFilterInvocation) error {
	result, err := d.Service.ListFiltered(ctx, inv.Bucket, inv.Prefix, inv.Filter, inv.Options)
	if err != nil {
		return err
	}
	return d.Formatter.FormatList(d.Out, &result)
}

func (d *Dispatcher) upload(ctx context.Context, inv UploadInvocation) error {
	result, err := d.Service.Upload(ctx, bucketctl.UploadRequest{
		Bucket:      inv.Bucket,
		FilePath:    inv.FilePath,
		Key:         inv.Key,
		ContentType: inv.ContentType,
	})
	if err != nil {
		return err
	}
	return d.Formatter.FormatUpload(d.Out, &result)
}

func (d *Dispatcher) delete(ctx context.Context, inv DeleteInvocation) error {
	opts := bucketctl.DeleteOptions{ListOptions: inv.Options, DryRun: inv.DryRun}
	if inv.Interactive {
		if d.Confirm == nil {
			return ErrConfirmUnavailable
		}
		opts.Confirm = d.Confirm
	}

	result, err := d.Service.DeleteFiltered(ctx, inv.Bucket, inv.Prefix, inv.Filter, opts)

	// Per-key outcomes are reported even when part of the delete failed.
	if err == nil || len(result.Outcomes) > 0 {
		if fmtErr := d.Formatter.FormatDelete(d.Out, &result); fmtErr != nil && err == nil {
			return fmtErr
		}
	}
	return err
}
