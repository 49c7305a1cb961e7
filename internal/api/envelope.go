package api

import (
	"net/http"

	"labportal/internal/common/errors"
)

// Envelope is the wrapper every backend response arrives in.
type Envelope[T any] struct {
	Status  int    `json:"status"`
	Data    T      `json:"data"`
	Message string `json:"message"`
}

// OK reports whether the envelope carries a success status.
func (e Envelope[T]) OK() bool {
	return e.Status == http.StatusOK || e.Status == http.StatusCreated
}

// Result returns Data on success and a REMOTE_ERROR otherwise.
func (e Envelope[T]) Result() (T, error) {
	if !e.OK() {
		var zero T
		return zero, errors.NewRemoteError(e.Status, e.Message, nil)
	}
	return e.Data, nil
}
