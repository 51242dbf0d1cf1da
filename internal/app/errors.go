package app

import "errors"

var (
	ErrUnknownStorageDriver = errors.New("app: unknown storage driver")
	ErrUnknownSessionStore  = errors.New("app: unknown session store")
	ErrInvalidMetricsPath   = errors.New("app: metrics path must start with /")
	ErrNilOption            = errors.New("app: option value cannot be nil")
)
