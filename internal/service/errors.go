package service

import "errors"

var (
	ErrValidation = errors.New("validation") // 400/422
	ErrNotFound   = errors.New("not found")  // 404
	ErrEmptyCart  = errors.New("empty cart") // redirect with warning
	ErrConflict   = errors.New("conflict")   // 409
)

// FieldErrors carries per-field validation messages for form re-rendering.
// errors.Is(err, ErrValidation) holds for any FieldErrors value.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string { return "validation failed" }

func (fe FieldErrors) Unwrap() error { return ErrValidation }
