//go:build linux

package linux

import (
	"context"
	"errors"
	"strings"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fctx"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/darkhz/avremote/api/errorkinds"
	dbh "github.com/darkhz/avremote/linux/internal/dbushelper"
	"github.com/godbus/dbus/v5"
)

// remoteCallError classifies and wraps a failed remote call. A failure
// the peer reports as not-supported maps to ErrNotAllowed; every other
// remote failure maps to ErrRemoteCall. No retries are performed.
func remoteCallError(err error, message string, metadata ...string) error {
	kind := errorkinds.ErrRemoteCall
	switch {
	case isNotSupported(err):
		kind = errorkinds.ErrNotAllowed
	case isAlreadyConnected(err):
		kind = errorkinds.ErrAlreadyConnected
	}

	return fault.Wrap(errors.Join(kind, err),
		fctx.With(context.Background(), metadata...),
		ftag.With(ftag.Internal),
		fmsg.With(message),
	)
}

// localCallError wraps a validation failure that was detected before any
// remote call was issued.
func localCallError(err error, message string, metadata ...string) error {
	return fault.Wrap(err,
		fctx.With(context.Background(), metadata...),
		ftag.With(ftag.InvalidArgument),
		fmsg.With(message),
	)
}

// isNotSupported reports whether the peer rejected the operation as
// unsupported.
func isNotSupported(err error) bool {
	var dbusErr dbus.Error
	if errors.As(err, &dbusErr) && dbusErr.Name == dbh.BluezErrNotSupported {
		return true
	}

	return strings.Contains(err.Error(), "Not Supported") ||
		strings.Contains(err.Error(), "NotSupported")
}

// isAlreadyConnected reports whether the peer rejected the operation
// because the target is already connected.
func isAlreadyConnected(err error) bool {
	var dbusErr dbus.Error

	return errors.As(err, &dbusErr) && dbusErr.Name == dbh.BluezErrAlreadyConnected
}
