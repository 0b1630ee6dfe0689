package network

import "errors"

var (
	// ErrConnectionFailed indicates the HTTP request to the node failed.
	ErrConnectionFailed = errors.New("network: connection failed")

	// ErrInvalidResponse indicates the node's response could not be decoded.
	ErrInvalidResponse = errors.New("network: invalid response")

	// ErrItemNotFound indicates the item does not exist or has been burned.
	ErrItemNotFound = errors.New("network: item not found")

	// ErrInvalidOwner indicates the node returned a malformed owner address.
	ErrInvalidOwner = errors.New("network: invalid owner address")
)
