// Command pricingctl calls one PricingService method with a JSON body and
// prints the JSON response. Useful for smoke tests against a local server:
//
//	pricingctl -method ResolvePrice -body '{"offer_id":"o-1","quantity":2}'
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/light-bringer/pricing-engine/internal/pkg/logger"
	"github.com/light-bringer/pricing-engine/internal/transport/grpc/pricing"
)

func main() {
	addr := flag.String("addr", "localhost:9090", "gRPC server address")
	method := flag.String("method", "", "PricingService method, e.g. ResolvePrice")
	body := flag.String("body", "{}", "JSON request body")
	actor := flag.String("actor", "", "actor sent as x-actor metadata")
	timeout := flag.Duration("timeout", 10*time.Second, "call timeout")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "pricingctl", Format: "console", Output: os.Stderr})
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	out, err := call(ctx, *addr, *method, *body, *actor)
	if err != nil {
		logg.Error(ctx, "call failed", err)
		os.Exit(1)
	}
	fmt.Println(out)
}

func call(ctx context.Context, addr, method, body, actor string) (string, error) {
	if method == "" {
		return "", errors.New("-method is required")
	}

	in := &structpb.Struct{}
	if err := protojson.Unmarshal([]byte(body), in); err != nil {
		return "", fmt.Errorf("body is not a JSON object: %w", err)
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return "", fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	if actor != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "x-actor", actor)
	}

	var header metadata.MD
	resp, err := pricing.NewClient(conn).Call(ctx, method, in, grpc.Header(&header))
	if err != nil {
		return "", err
	}

	raw, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(resp)
	if err != nil {
		return "", fmt.Errorf("failed to render response: %w", err)
	}
	if ids := header.Get("x-request-id"); len(ids) > 0 {
		return fmt.Sprintf("# request %s\n%s", ids[0], raw), nil
	}
	return string(raw), nil
}
