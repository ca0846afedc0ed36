package pricing

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "pricing.v1.PricingService"

// PricingServiceServer is the server API of pricing.v1.PricingService.
// Every method exchanges google.protobuf.Struct bodies.
type PricingServiceServer interface {
	ActivatePriceBook(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ArchivePriceBook(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ClonePriceBook(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ActivateOffer(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ChangeOfferStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExpireOffers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExecutePolicy(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ChangeBundleStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateDiscountRule(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResolveOffer(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResolvePrice(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CalculateBundlePrice(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SimulatePrice(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(PricingServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func methodDesc(name string, call unaryMethod) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(PricingServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(PricingServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes pricing.v1.PricingService for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PricingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		methodDesc("ActivatePriceBook", PricingServiceServer.ActivatePriceBook),
		methodDesc("ArchivePriceBook", PricingServiceServer.ArchivePriceBook),
		methodDesc("ClonePriceBook", PricingServiceServer.ClonePriceBook),
		methodDesc("ActivateOffer", PricingServiceServer.ActivateOffer),
		methodDesc("ChangeOfferStatus", PricingServiceServer.ChangeOfferStatus),
		methodDesc("ExpireOffers", PricingServiceServer.ExpireOffers),
		methodDesc("ExecutePolicy", PricingServiceServer.ExecutePolicy),
		methodDesc("ChangeBundleStatus", PricingServiceServer.ChangeBundleStatus),
		methodDesc("UpdateDiscountRule", PricingServiceServer.UpdateDiscountRule),
		methodDesc("ResolveOffer", PricingServiceServer.ResolveOffer),
		methodDesc("ResolvePrice", PricingServiceServer.ResolvePrice),
		methodDesc("CalculateBundlePrice", PricingServiceServer.CalculateBundlePrice),
		methodDesc("SimulatePrice", PricingServiceServer.SimulatePrice),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pricing/v1/pricing.proto",
}

// RegisterPricingServiceServer registers srv with s.
func RegisterPricingServiceServer(s grpc.ServiceRegistrar, srv PricingServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client calls PricingService methods by name.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a client connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes method with a Struct body.
func (c *Client) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
