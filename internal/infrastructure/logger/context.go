package logger

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is a type for context keys used by the logger package
type contextKey string

// OperationKey is the context key for the running operation name
const OperationKey contextKey = "operation"

// WithOperation tags the context and logger with the name of the
// business operation being performed, e.g. "record-sale" or "seed".
// The gorm logger picks the tag up and adds it to every SQL trace
// issued under the returned context.
func WithOperation(ctx context.Context, logger *zap.Logger, operation string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, OperationKey, operation)
	return ctx, logger.With(zap.String("operation", operation))
}

// GetOperation retrieves the operation name from context
func GetOperation(ctx context.Context) string {
	if operation, ok := ctx.Value(OperationKey).(string); ok {
		return operation
	}
	return ""
}
