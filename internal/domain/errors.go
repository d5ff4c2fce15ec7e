package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrNoDataProduced     = errors.New("no rows survived aggregation")
	ErrNoDocuments        = errors.New("no input documents found")
	ErrUnsupportedFormat  = errors.New("unsupported document format")
	ErrNoListingURLs      = errors.New("no report links found on listing page")
	ErrAllDownloadsFailed = errors.New("all report downloads failed")
)
