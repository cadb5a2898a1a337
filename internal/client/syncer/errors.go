package syncer

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cheatsync/internal/client/client"
	"github.com/dmitrijs2005/cheatsync/internal/common"
)

// Class tells the engine what to do with a failed remote or local operation.
type Class int

const (
	// Transient failures keep the change queued for the next reconnect.
	Transient Class = iota + 1
	// Permanent failures drop the change and surface a Warning.
	Permanent
	// Persistence failures are local cache writes that did not stick.
	Persistence
)

func (c Class) String() string {
	switch c {
	case Transient:
		return "transient"
	case Permanent:
		return "permanent"
	case Persistence:
		return "persistence"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// SyncError is returned by Router calls that reached the remote store and
// failed there.
type SyncError struct {
	Class    Class
	Op       string
	TargetID string
	Err      error
}

func (e *SyncError) Error() string {
	if e.TargetID == "" {
		return fmt.Sprintf("%s (%s): %v", e.Op, e.Class, e.Err)
	}
	return fmt.Sprintf("%s %s (%s): %v", e.Op, e.TargetID, e.Class, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// Classify maps an error from the remote store or from validation to a Class.
// Anything not known to be permanent is transient.
func Classify(err error) Class {
	switch {
	case errors.Is(err, client.ErrNotFound),
		errors.Is(err, client.ErrInvalid),
		errors.Is(err, client.ErrUnauthorized),
		errors.Is(err, common.ErrNotFound),
		errors.Is(err, common.ErrInvalid),
		errors.Is(err, common.ErrUnauthorized):
		return Permanent
	default:
		return Transient
	}
}

// IsPermanent reports whether err carries a permanent SyncError.
func IsPermanent(err error) bool {
	var se *SyncError
	return errors.As(err, &se) && se.Class == Permanent
}

// Warning is a problem the user should hear about that did not fail the call
// that caused it.
type Warning struct {
	Class    Class
	Op       string
	TargetID string
	Err      error
	At       time.Time
}

func (w Warning) String() string {
	if w.TargetID == "" {
		return fmt.Sprintf("%s: %s: %v", w.Class, w.Op, w.Err)
	}
	return fmt.Sprintf("%s: %s %s: %v", w.Class, w.Op, w.TargetID, w.Err)
}
