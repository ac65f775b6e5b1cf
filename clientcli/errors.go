package clientcli

import "errors"

// ErrUnknownVerb is returned by ParseInvocation for a verb it does not know.
var ErrUnknownVerb = errors.New("unknown command")

// ErrConfirmUnavailable is returned when interactive confirmation is
// requested but the dispatcher has no way to ask.
var ErrConfirmUnavailable = errors.New("interactive confirmation is not available")
