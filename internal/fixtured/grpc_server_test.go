package fixtured

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/GoSim-25-26J-441/topology-fixtures/internal/metrics"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/logger"
)

func startBufconnServer(t *testing.T) (*FixtureClient, *grpc.ClientConn, *Executor) {
	t.Helper()
	store := NewDatasetStore()
	executor := NewExecutor(store, metrics.NewRegistry(), logger.Discard())
	srv, _ := NewGRPCServer(store, executor)

	lis := bufconn.Listen(1 << 20)
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to dial bufconn: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewFixtureClient(conn), conn, executor
}

func TestGRPCServerDatasetLifecycle(t *testing.T) {
	client, _, executor := startBufconnServer(t)
	ctx := context.Background()

	created, err := client.CreateDataset(ctx, []byte(chainConfigJSON), testAnchor)
	if err != nil {
		t.Fatalf("CreateDataset error: %v", err)
	}
	if !created.GetFields()["created"].GetBoolValue() {
		t.Fatalf("expected created=true")
	}
	id := created.GetFields()["dataset"].GetStructValue().GetFields()["id"].GetStringValue()
	if id == "" {
		t.Fatalf("expected dataset id")
	}
	executor.Wait()

	got, err := client.GetDataset(ctx, id)
	if err != nil {
		t.Fatalf("GetDataset error: %v", err)
	}
	ds := got.GetFields()["dataset"].GetStructValue().GetFields()
	if ds["status"].GetStringValue() != string(StatusCompleted) {
		t.Fatalf("expected completed, got %v", ds["status"])
	}
	if ds["stats"].GetStructValue().GetFields()["events"].GetNumberValue() != 50 {
		t.Fatalf("expected 50 events in stats")
	}

	resp, err := client.GetResponse(ctx, id, ResponseDependencies)
	if err != nil {
		t.Fatalf("GetResponse error: %v", err)
	}
	hits := resp.GetFields()["hits"].GetStructValue().GetFields()["hits"].GetListValue().GetValues()
	if len(hits) != 4 {
		t.Fatalf("expected 4 dependency hits, got %d", len(hits))
	}
	first := hits[0].GetStructValue().GetFields()
	if first["_id"].GetStringValue() != "asset-0---asset-1" {
		t.Fatalf("unexpected first hit id %v", first["_id"])
	}
	source := first["_source"].GetStructValue().GetFields()
	if source["session_id"].GetStructValue().GetFields()["value_count"].GetNumberValue() != 10 {
		t.Fatalf("expected value_count 10")
	}

	again, err := client.CreateDataset(ctx, []byte(chainConfigJSON), testAnchor)
	if err != nil {
		t.Fatalf("CreateDataset error: %v", err)
	}
	if again.GetFields()["created"].GetBoolValue() {
		t.Fatalf("expected the existing dataset to be returned")
	}
}

func TestGRPCServerErrors(t *testing.T) {
	client, _, executor := startBufconnServer(t)
	ctx := context.Background()

	_, err := client.GetDataset(ctx, "")
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
	_, err = client.GetDataset(ctx, "ds-missing")
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
	_, err = client.CreateDataset(ctx, []byte(`{"hotspots": {"weightBoost": 0.5}}`), testAnchor)
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for invalid config, got %v", err)
	}

	created, err := client.CreateDataset(ctx, []byte(`{"sessions": {"total": 5000000}}`), testAnchor)
	if err != nil {
		t.Fatalf("CreateDataset error: %v", err)
	}
	id := created.GetFields()["dataset"].GetStructValue().GetFields()["id"].GetStringValue()
	if _, err := client.StopDataset(ctx, id); err != nil {
		t.Fatalf("StopDataset error: %v", err)
	}
	executor.Wait()

	_, err = client.GetResponse(ctx, id, ResponseAssetDB)
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("expected FailedPrecondition for a cancelled dataset, got %v", err)
	}
	_, err = client.StopDataset(ctx, id)
	if status.Code(err) != codes.FailedPrecondition {
		t.Fatalf("expected FailedPrecondition on second stop, got %v", err)
	}
}

func TestGRPCServerHealth(t *testing.T) {
	_, conn, _ := startBufconnServer(t)

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{
		Service: FixtureServiceName,
	})
	if err != nil {
		t.Fatalf("health check error: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("expected SERVING, got %v", resp.GetStatus())
	}
}
