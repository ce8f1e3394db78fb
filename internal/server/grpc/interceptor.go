package grpc

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/dmitrijs2005/buidlvault/internal/address"
	"github.com/dmitrijs2005/buidlvault/internal/api"
	"github.com/dmitrijs2005/buidlvault/internal/common"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const (
	identityKey ctxKey = "identity"
	callKey     ctxKey = "call"
)

// call carries what inner interceptors learn back out to loggingInterceptor.
type call struct {
	identity address.Address
	ok       bool
}

// IdentityFromContext returns the caller authenticated by the access token.
func IdentityFromContext(ctx context.Context) (address.Address, bool) {
	id, ok := ctx.Value(identityKey).(address.Address)
	return id, ok
}

func firstMetadata(ctx context.Context, key string) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(key); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if api.PublicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	accessToken := firstMetadata(ctx, common.AccessTokenHeaderName)
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	identity, err := s.services.Sessions.Authenticate(accessToken)
	if err != nil {
		return nil, err
	}

	if c, ok := ctx.Value(callKey).(*call); ok {
		c.identity, c.ok = identity, true
	}
	return handler(context.WithValue(ctx, identityKey, identity), req)
}

// loggingInterceptor tags every call with a request id, maps domain errors to
// statuses and records the outcome.
func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	requestID := firstMetadata(ctx, common.RequestIDHeaderName)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	_ = grpc.SetHeader(ctx, metadata.Pairs(common.RequestIDHeaderName, requestID))

	c := &call{}
	ctx = context.WithValue(ctx, callKey, c)

	started := time.Now()
	resp, err := handler(ctx, req)
	err = toStatusError(err)
	code := status.Code(err)
	elapsed := time.Since(started)

	s.metrics.ObserveRPC(info.FullMethod, code.String(), elapsed.Seconds())

	args := []any{"request_id", requestID, "method", info.FullMethod, "code", code.String(), "duration", elapsed}
	if c.ok {
		args = append(args, "identity", c.identity.String())
	}
	switch code {
	case codes.OK:
		s.logger.Debug(ctx, "rpc", args...)
	case codes.Internal, codes.Unknown:
		s.logger.Error(ctx, "rpc failed", args...)
	default:
		s.logger.Info(ctx, "rpc rejected", append(args, "error", status.Convert(err).Message())...)
	}
	return resp, err
}

func (s *GRPCServer) recoveryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error(ctx, "panic in handler", "method", info.FullMethod, "panic", p, "stack", string(debug.Stack()))
			resp, err = nil, status.Error(codes.Internal, "internal error")
		}
	}()
	return handler(ctx, req)
}
