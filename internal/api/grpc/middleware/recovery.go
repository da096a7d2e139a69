package middleware

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/evalca-server/internal/logger"
)

// RecoveryOptions returns recovery interceptor options that log the panic and
// answer with codes.Internal.
func RecoveryOptions(logger *logger.Logger) []recovery.Option {
	return []recovery.Option{
		recovery.WithRecoveryHandlerContext(func(ctx context.Context, p any) error {
			logger.Error("gRPC handler panicked",
				"panic", fmt.Sprint(p),
				"stack", string(debug.Stack()))
			return status.Error(codes.Internal, "internal server error")
		}),
	}
}
