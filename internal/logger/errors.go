package logger

import (
	"errors"
)

var (
	// ErrAppNameIsEmpty is returned if Log.AppName was not defined.
	ErrAppNameIsEmpty = errors.New("log.AppName can not be empty, it tags every log line as app")

	// ErrServiceNameIsEmpty is returned if Log.ServiceName was not defined.
	ErrServiceNameIsEmpty = errors.New("log.ServiceName can not be empty, it labels the log statement counter")
)
