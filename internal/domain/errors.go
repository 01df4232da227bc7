package domain

import "errors"

var (
	// ErrNoJSONFound is returned when a text contains no JSON object span
	ErrNoJSONFound = errors.New("no JSON object found in text")

	// ErrMalformedJSON is returned when a JSON object span fails to parse
	ErrMalformedJSON = errors.New("malformed JSON object")

	// ErrVisionFailed is returned when the vision analysis call fails
	ErrVisionFailed = errors.New("vision analysis failed")

	// ErrSearchFailed is returned when a search provider request fails
	ErrSearchFailed = errors.New("search request failed")

	// ErrSynthesisFailed is returned when the synthesis call fails
	ErrSynthesisFailed = errors.New("synthesis request failed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
)
