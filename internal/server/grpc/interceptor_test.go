package grpc

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type recordingLogger struct {
	nopLogger
	msgs []string
	args [][]any
}

func (r *recordingLogger) Debug(_ context.Context, msg string, args ...any) {
	r.msgs = append(r.msgs, msg)
	r.args = append(r.args, args)
}

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	log := &recordingLogger{}
	s := &HealthServer{logger: log}

	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	}

	resp, err := s.loggingInterceptor(context.Background(), nil, info, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != "ok" {
		t.Fatalf("unexpected handler resp: %v", resp)
	}
	if len(log.msgs) != 1 || log.msgs[0] != "grpc request" {
		t.Fatalf("expected one log line, got %v", log.msgs)
	}
	if log.args[0][1] != "/grpc.health.v1.Health/Check" || log.args[0][3] != "OK" {
		t.Fatalf("unexpected log args: %v", log.args[0])
	}
}

func TestLoggingInterceptor_ReturnsHandlerError(t *testing.T) {
	log := &recordingLogger{}
	s := &HealthServer{logger: log}

	want := status.Error(codes.NotFound, "unknown service")
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, want
	}

	_, err := s.loggingInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/x"}, h)
	if !errors.Is(err, want) {
		t.Fatalf("expected handler error, got %v", err)
	}
	if log.args[0][3] != "NotFound" {
		t.Fatalf("expected NotFound code in log, got %v", log.args[0][3])
	}
}
