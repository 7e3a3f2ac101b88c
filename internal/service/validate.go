// Package service implements the application logic between the HTTP
// handlers and the store.
package service

import "github.com/sushestargate/stargate-server/internal/validation"

// validate is a shared validator instance for request validation.
var validate = validation.New()
