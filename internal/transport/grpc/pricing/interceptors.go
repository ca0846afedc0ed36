package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/pricing-engine/internal/pkg/logger"
)

const requestIDKey = "x-request-id"

// RequestIDInterceptor attaches the caller's x-request-id, or a new one, to
// the logging context and echoes it in the response header.
func RequestIDInterceptor(logg *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		reqID := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vals := md.Get(requestIDKey); len(vals) > 0 {
				reqID = vals[0]
			}
		}
		if reqID == "" {
			reqID = uuid.NewString()
		}
		_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDKey, reqID))

		if logg != nil {
			ctx = logg.WithRequestID(ctx, reqID)
		}
		return handler(ctx, req)
	}
}

// LoggingInterceptor logs every call with its status code and duration.
func LoggingInterceptor(logg *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if logg == nil {
			return handler(ctx, req)
		}
		ctx = logg.WithField(ctx, "method", info.FullMethod)
		start := time.Now()

		resp, err := handler(ctx, req)

		code := status.Code(err)
		done := logg.WithFields(ctx, map[string]any{
			"code":        code.String(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		switch code {
		case codes.OK:
			logg.Info(done, "rpc.complete")
		case codes.Internal, codes.Unknown:
			logg.Error(done, "rpc.failed", err)
		default:
			logg.Warn(done, "rpc.rejected: "+status.Convert(err).Message())
		}
		return resp, err
	}
}

// RecoveryInterceptor turns a panic in a handler into codes.Internal.
func RecoveryInterceptor(logg *logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				if logg != nil {
					pctx := logg.WithFields(ctx, map[string]any{"panic": fmt.Sprint(rec), "method": info.FullMethod})
					logg.Error(pctx, "panic.recovered", fmt.Errorf("panic: %v", rec))
				}
				resp, err = nil, status.Error(codes.Internal, "internal server error")
			}
		}()
		return handler(ctx, req)
	}
}

// ServerOptions returns the interceptor chain used by cmd/server.
func ServerOptions(logg *logger.Logger) []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			RecoveryInterceptor(logg),
			RequestIDInterceptor(logg),
			LoggingInterceptor(logg),
		),
	}
}
