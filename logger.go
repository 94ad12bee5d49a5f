package ioc

import "github.com/xraph/ioc/internal/logger"

// Re-export logger interfaces
type (
	Logger = logger.Logger
	Field  = logger.Field
)

// Re-export logger constructors
var (
	NewDevelopmentLogger = logger.NewDevelopmentLogger
	NewProductionLogger  = logger.NewProductionLogger
	NewNoopLogger        = logger.NewNoopLogger
)
