package domain

import "errors"

var (
	ErrUnauthenticated     = errors.New("Invalid or expired token")
	ErrAdminRequired       = errors.New("Access denied. Admin role required.")
	ErrNotOwner            = errors.New("Access denied. You can only update your own products.")
	ErrProductNotFound     = errors.New("Product not found")
	ErrUpstreamUnavailable = errors.New("Authentication service unavailable")
)
