package dashboard

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/LeonardoBeccarini/cultiverse/internal/trend"
	"github.com/LeonardoBeccarini/cultiverse/internal/twin"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "cultiverse.dashboard.v1.Dashboard"

// DashboardServer is the gRPC surface. Requests and responses are
// google.protobuf.Struct so clients need no generated stubs.
type DashboardServer interface {
	GetSummary(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Select(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTrends(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func unaryHandler(method string, call func(DashboardServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DashboardServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DashboardServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var dashboardServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DashboardServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetSummary", Handler: unaryHandler("GetSummary", DashboardServer.GetSummary)},
		{MethodName: "Select", Handler: unaryHandler("Select", DashboardServer.Select)},
		{MethodName: "GetTrends", Handler: unaryHandler("GetTrends", DashboardServer.GetTrends)},
	},
	Metadata: "cultiverse/dashboard/v1/dashboard.proto",
}

// RegisterDashboardServer registers srv and marks it SERVING on hs.
func RegisterDashboardServer(s *grpc.Server, srv DashboardServer, hs *health.Server) {
	s.RegisterService(&dashboardServiceDesc, srv)
	if hs != nil {
		healthpb.RegisterHealthServer(s, hs)
		hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	}
}

// NewGRPCServer returns a gRPC server exposing d and the health service.
func NewGRPCServer(d *Dashboard, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	s := grpc.NewServer(opts...)
	hs := health.NewServer()
	RegisterDashboardServer(s, &GrpcHandler{d: d}, hs)
	return s, hs
}

// GrpcHandler adapts the Dashboard to DashboardServer.
type GrpcHandler struct {
	d *Dashboard
}

func (h *GrpcHandler) GetSummary(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return summaryStruct(h.d.Summary())
}

func (h *GrpcHandler) Select(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	zoneID := strings.TrimSpace(req.GetFields()["zone_id"].GetStringValue())
	if zoneID == "" {
		return nil, status.Error(codes.InvalidArgument, "zone_id is required")
	}
	sum, err := h.d.Select(ctx, zoneID)
	if errors.Is(err, twin.ErrUnknownZone) {
		return nil, status.Error(codes.NotFound, err.Error())
	}
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return summaryStruct(sum)
}

func (h *GrpcHandler) GetTrends(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return seriesStruct(h.d.trends.Variant().Name, h.d.Series())
}

func summaryStruct(s twin.Summary) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(map[string]any{
		"title":          s.Title,
		"health":         s.Health,
		"health_percent": s.HealthPercent,
		"nitrogen":       string(s.Nitrogen),
		"nitrogen_label": s.NitrogenLabel,
		"narrative":      s.Narrative,
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func seriesStruct(variant string, s trend.Series) (*structpb.Struct, error) {
	days := make([]any, len(s.Days))
	for i, d := range s.Days {
		days[i] = d
	}
	out, err := structpb.NewStruct(map[string]any{
		"variant":       variant,
		"days":          days,
		"soil_moisture": floats(s.SoilMoisture),
		"humidity":      floats(s.Humidity),
		"pest_risk":     floats(s.PestRisk),
	})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func floats(v []float64) []any {
	out := make([]any, len(v))
	for i, f := range v {
		out[i] = f
	}
	return out
}

// DashboardClient calls the facade over conn.
type DashboardClient struct {
	cc grpc.ClientConnInterface
}

func NewDashboardClient(cc grpc.ClientConnInterface) *DashboardClient {
	return &DashboardClient{cc: cc}
}

func (c *DashboardClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DashboardClient) GetSummary(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetSummary", &structpb.Struct{}, opts...)
}

func (c *DashboardClient) Select(ctx context.Context, zoneID string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(map[string]any{"zone_id": zoneID})
	if err != nil {
		return nil, err
	}
	return c.invoke(ctx, "Select", in, opts...)
}

func (c *DashboardClient) GetTrends(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetTrends", &structpb.Struct{}, opts...)
}
