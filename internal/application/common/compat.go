package common

// This file re-exports the mediator and logging types so handlers can depend
// on a single application package.
//
// New code may import the specific packages directly:
//   - github.com/andrescamacho/slotworks-go/internal/application/mediator
//   - github.com/andrescamacho/slotworks-go/internal/application/logging

import (
	"github.com/andrescamacho/slotworks-go/internal/application/logging"
	"github.com/andrescamacho/slotworks-go/internal/application/mediator"
)

// Mediator types
type (
	Request        = mediator.Request
	Response       = mediator.Response
	RequestHandler = mediator.RequestHandler
	HandlerFunc    = mediator.HandlerFunc
	Middleware     = mediator.Middleware
	Mediator       = mediator.Mediator
)

// Logging types
type ContainerLogger = logging.ContainerLogger

// Mediator functions
var (
	NewMediator = mediator.NewMediator
)

// RegisterHandler is a generic function and must be called directly from mediator package
// Example: mediator.RegisterHandler[MyCommand](m, handler)

// Logging functions
var (
	WithLogger        = logging.WithLogger
	LoggerFromContext = logging.LoggerFromContext
)
