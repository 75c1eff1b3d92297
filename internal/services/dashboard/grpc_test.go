package dashboard

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/LeonardoBeccarini/cultiverse/internal/trend"
)

func newGRPCConn(t *testing.T, d *Dashboard) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv, _ := NewGRPCServer(d)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestGRPC_SummaryAndSelect(t *testing.T) {
	d := newTestDashboard(t)
	client := NewDashboardClient(newGRPCConn(t, d))
	ctx := context.Background()

	sum, err := client.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Zone 1", sum.GetFields()["title"].GetStringValue())
	assert.Equal(t, 72.0, sum.GetFields()["health_percent"].GetNumberValue())

	sum, err = client.Select(ctx, "Zone 2")
	require.NoError(t, err)
	assert.Equal(t, "Zone 2", sum.GetFields()["title"].GetStringValue())
	assert.Equal(t, "OK", sum.GetFields()["nitrogen_label"].GetStringValue())
	assert.Equal(t, "Zone 2", d.Selected())
}

func TestGRPC_SelectErrors(t *testing.T) {
	d := newTestDashboard(t)
	client := NewDashboardClient(newGRPCConn(t, d))

	_, err := client.Select(context.Background(), "Zone 42")
	assert.Equal(t, codes.NotFound, status.Code(err))
	assert.Equal(t, "Zone 1", d.Selected())

	_, err = client.Select(context.Background(), "  ")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGRPC_GetTrends(t *testing.T) {
	client := NewDashboardClient(newGRPCConn(t, newTestDashboard(t)))

	out, err := client.GetTrends(context.Background())
	require.NoError(t, err)
	fields := out.GetFields()
	assert.Equal(t, trend.CanonicalVariant.Name, fields["variant"].GetStringValue())

	risk := fields["pest_risk"].GetListValue().GetValues()
	require.Len(t, risk, trend.Days)
	assert.InDelta(t, 13.0, risk[0].GetNumberValue(), 1e-9)
	assert.Equal(t, 1.0, fields["days"].GetListValue().GetValues()[0].GetNumberValue())
}

func TestGRPC_Health(t *testing.T) {
	conn := newGRPCConn(t, newTestDashboard(t))

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
