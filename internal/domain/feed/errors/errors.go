package errors

import (
	"errors"
	"fmt"
)

// ErrWriteConflict is returned by the cache store when an insert loses the
// race against a concurrent writer for the same natural key. Resolvers react
// by re-running the whole fetch-and-store sequence once.
var ErrWriteConflict = errors.New("cache write conflict")

// ParseError is the base for every terminal resolution failure. It carries a
// human-readable message, the link that failed and, when available, the raw
// upstream payload for diagnostics.
type ParseError struct {
	Message string
	URL     string
	Detail  string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Message, e.URL)
	}
	return fmt.Sprintf("%s: %s ->\n%s", e.Message, e.URL, e.Detail)
}

// MalformedLinkError means the URL did not match the resolver's pattern.
type MalformedLinkError struct {
	ParseError
}

// DataMissingError means the upstream response parsed but lacked the
// expected top-level data key.
type DataMissingError struct {
	ParseError
}

// EmptyDataError means the data key was present but held no content.
type EmptyDataError struct {
	ParseError
}

// UnsupportedURLError means no dispatcher pattern matched the canonical URL.
type UnsupportedURLError struct {
	ParseError
}

// UnknownSubtypeError marks a dynamic card subtype outside the dispatch
// table. It is logged, never returned to the caller.
type UnknownSubtypeError struct {
	ParseError
	Subtype int
}

// Constructors

func NewMalformedLink(msg, url string) error {
	return &MalformedLinkError{ParseError{Message: msg, URL: url}}
}

func NewDataMissing(msg, url, detail string) error {
	return &DataMissingError{ParseError{Message: msg, URL: url, Detail: detail}}
}

func NewEmptyData(msg, url string) error {
	return &EmptyDataError{ParseError{Message: msg, URL: url}}
}

func NewUnsupportedURL(url string) error {
	return &UnsupportedURLError{ParseError{Message: "unsupported URL", URL: url}}
}

func NewUnknownSubtype(subtype int, url, detail string) error {
	return &UnknownSubtypeError{
		ParseError: ParseError{
			Message: fmt.Sprintf("unknown dynamic card subtype %d", subtype),
			URL:     url,
			Detail:  detail,
		},
		Subtype: subtype,
	}
}

// Type checks

func IsMalformedLink(err error) bool {
	var e *MalformedLinkError
	return errors.As(err, &e)
}

func IsDataMissing(err error) bool {
	var e *DataMissingError
	return errors.As(err, &e)
}

func IsEmptyData(err error) bool {
	var e *EmptyDataError
	return errors.As(err, &e)
}

func IsUnsupportedURL(err error) bool {
	var e *UnsupportedURLError
	return errors.As(err, &e)
}

func IsUnknownSubtype(err error) bool {
	var e *UnknownSubtypeError
	return errors.As(err, &e)
}

// IsWriteConflict reports whether err stems from a concurrent cache insert.
func IsWriteConflict(err error) bool {
	return errors.Is(err, ErrWriteConflict)
}
