package services

import "errors"

// Sentinel errors returned by the service layer. Handlers translate these
// into the matching HTTP responses.
var (
	// ErrDatasetNotFound indicates the requested dataset ID is unknown.
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrNoCurrentDataset indicates no dataset has been processed yet.
	ErrNoCurrentDataset = errors.New("no current dataset")

	// ErrInvalidDataset indicates the uploaded file is not a readable
	// record collection.
	ErrInvalidDataset = errors.New("invalid dataset")

	// ErrUnsupportedFormat indicates the uploaded file extension is not
	// supported.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)
