package errs

import "errors"

var ErrNotFound = errors.New("not found")

var ErrAlreadyExists = errors.New("already exists")

var ErrForeignKey = errors.New("referenced row not found")

var ErrPermissionDenied = errors.New("permission denied")

var ErrUnavailable = errors.New("store unavailable")

var ErrInternal = errors.New("internal error")
