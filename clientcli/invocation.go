package clientcli

import (
	"fmt"

	"github.com/sagarc03/bucketctl"
)

// Verb names a bucket command.
type Verb string

// Supported verbs.
const (
	VerbList       Verb = "list"
	VerbListFilter Verb = "list-filter"
	VerbUpload     Verb = "upload"
	VerbDelete     Verb = "delete"
)

// Usage is printed when no verb or an unknown verb is given.
const Usage = `Usage:
  bucketctl list <bucket-name> [prefix]
  bucketctl list-filter <bucket-name> [prefix] <filter>
  bucketctl upload <bucket-name> <file-path> <key>
  bucketctl delete <bucket-name> [prefix] <filter>

Put -- before a prefix or filter that starts with '-'.
`

// Invocation is a parsed bucket command. The concrete types are
// ListInvocation, ListFilterInvocation, UploadInvocation and DeleteInvocation.
type Invocation interface {
	Verb() Verb
	invocation()
}

// ListInvocation lists the keys under a prefix.
type ListInvocation struct {
	Bucket  string
	Prefix  string
	Options bucketctl.ListOptions
}

// ListFilterInvocation lists the keys under a prefix matched by Filter.
type ListFilterInvocation struct {
	Bucket  string
	Prefix  string
	Filter  string
	Options bucketctl.ListOptions
}

// UploadInvocation writes a local file to a key.
type UploadInvocation struct {
	Bucket      string
	FilePath    string
	Key         string
	ContentType string
}

// DeleteInvocation removes the keys under a prefix matched by Filter.
type DeleteInvocation struct {
	Bucket      string
	Prefix      string
	Filter      string
	Options     bucketctl.ListOptions
	DryRun      bool
	Interactive bool
}

func (ListInvocation) Verb() Verb       { return VerbList }
func (ListFilterInvocation) Verb() Verb { return VerbListFilter }
func (UploadInvocation) Verb() Verb     { return VerbUpload }
func (DeleteInvocation) Verb() Verb     { return VerbDelete }

func (ListInvocation) invocation()       {}
func (ListFilterInvocation) invocation() {}
func (UploadInvocation) invocation()     {}
func (DeleteInvocation) invocation()     {}

// InvocationFlags carries the flag values that apply to some verbs.
type InvocationFlags struct {
	All         bool
	MaxKeys     int32
	DryRun      bool
	Interactive bool
	ContentType string
}

// ParseInvocation turns a verb and its positional arguments into an
// Invocation. It never contacts a backend.
//
// list-filter and delete take <bucket> [prefix] <filter>: with two
// arguments the second one is the filter and the prefix is empty.
//
// Returns ErrUnknownVerb for an unrecognized verb and
// bucketctl.ErrArgument when a required argument is missing or empty.
func ParseInvocation(verb string, args []string, flags InvocationFlags) (Invocation, error) {
	listOpts := bucketctl.ListOptions{All: flags.All, MaxKeys: flags.MaxKeys}

	switch Verb(verb) {
	case VerbList:
		if len(args) == 0 || args[0] == "" {
			return nil, argumentError("bucket name is required")
		}
		if len(args) > 2 {
			return nil, argumentError("too many arguments for list")
		}
		inv := ListInvocation{Bucket: args[0], Options: listOpts}
		if len(args) == 2 {
			inv.Prefix = args[1]
		}
		return inv, nil

	case VerbListFilter:
		bucket, prefix, filter, err := bucketPrefixFilter(verb, args)
		if err != nil {
			return nil, err
		}
		return ListFilterInvocation{Bucket: bucket, Prefix: prefix, Filter: filter, Options: listOpts}, nil

	case VerbUpload:
		if len(args) != 3 || args[0] == "" || args[1] == "" || args[2] == "" {
			if len(args) > 3 {
				return nil, argumentError("too many arguments for upload")
			}
			return nil, argumentError("bucket name, file path, and key are required")
		}
		return UploadInvocation{Bucket: args[0], FilePath: args[1], Key: args[2], ContentType: flags.ContentType}, nil

	case VerbDelete:
		bucket, prefix, filter, err := bucketPrefixFilter(verb, args)
		if err != nil {
			return nil, err
		}
		return DeleteInvocation{
			Bucket:      bucket,
			Prefix:      prefix,
			Filter:      filter,
			Options:     listOpts,
			DryRun:      flags.DryRun,
			Interactive: flags.Interactive,
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVerb, verb)
	}
}

func bucketPrefixFilter(verb string, args []string) (bucket, prefix, filter string, err error) {
	switch len(args) {
	case 2:
		bucket, filter = args[0], args[1]
	case 3:
		bucket, prefix, filter = args[0], args[1], args[2]
	default:
		if len(args) > 3 {
			return "", "", "", argumentError("too many arguments for " + verb)
		}
		if len(args) == 1 {
			bucket = args[0]
		}
	}

	if bucket == "" || filter == "" {
		return "", "", "", argumentError("bucket name and filter are required")
	}
	return bucket, prefix, filter, nil
}

func argumentError(msg string) error {
	return fmt.Errorf("%w: %s", bucketctl.ErrArgument, msg)
}
