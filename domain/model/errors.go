// Package model provides domain model for tableview
package model

import "errors"

var (
	// ErrOutOfRange is returned (or panicked with) when a cell address is outside the table
	ErrOutOfRange = errors.New("model: cell index out of range")

	// ErrInvalidColor is returned when a color string cannot be parsed
	ErrInvalidColor = errors.New("model: invalid color")

	// ErrNoSource is returned when a fetch needs a page source and none is attached
	ErrNoSource = errors.New("model: no page source attached")

	// ErrShortBlock is returned when a page source returns fewer cells than requested
	ErrShortBlock = errors.New("model: page source returned a short block")
)
