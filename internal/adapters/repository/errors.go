package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrClosed = errors.New("store closed")
	ErrEncode = errors.New("encode value failed")
	ErrDecode = errors.New("decode value failed")
	ErrOpen   = errors.New("open store failed")
)
