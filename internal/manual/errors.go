package manual

import "errors"

var (
	// ErrNotADirectory is returned by the mapper when the input path is missing or not a directory.
	ErrNotADirectory = errors.New("not a directory")

	// ErrInvalidSchema is returned when a snapshot fails strict validation.
	ErrInvalidSchema = errors.New("invalid manual schema")

	// ErrNoGroups is returned when the snapshot root has no group directories.
	ErrNoGroups = errors.New("no group directories found in manuals schema")

	// ErrInvalidGroupName is returned for a top-level directory not named "NN.Name".
	ErrInvalidGroupName = errors.New("invalid group name")

	// ErrInvalidTermDirectory is returned for a term-like directory that does not
	// follow "ANN.Name.trimestreNN".
	ErrInvalidTermDirectory = errors.New("invalid term directory")

	// ErrYearOutOfRange is returned when a term directory stage is outside [1,3].
	ErrYearOutOfRange = errors.New("year out of range")

	// ErrTermOutOfRange is returned when a term directory term is outside [1,4].
	ErrTermOutOfRange = errors.New("term out of range")
)
