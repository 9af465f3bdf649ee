package ingest

import "errors"

var (
	// ErrLoaderExists is returned when registering a loader whose name is
	// already taken. Registration never overwrites.
	ErrLoaderExists = errors.New("loader already registered")

	// ErrLoaderNotFound is returned when a loader is requested by name and
	// no loader with that name is registered.
	ErrLoaderNotFound = errors.New("loader not found")

	// ErrNoLoader is returned when no registered loader claims a file's
	// extension.
	ErrNoLoader = errors.New("no loader for file")

	// ErrFileNotFound is returned when the input file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrUnsupportedExtension is returned when a loader is invoked on an
	// extension it does not declare support for.
	ErrUnsupportedExtension = errors.New("unsupported file extension")

	// ErrMalformed wraps parse failures in the input file.
	ErrMalformed = errors.New("malformed input")

	// ErrInvalidOption wraps rejected load options, such as an encoding
	// name no decoder exists for.
	ErrInvalidOption = errors.New("invalid load option")
)
