package fixtured

import (
	"context"
	"testing"
	"time"

	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/logger"
)

func TestServeRequiresAnAddress(t *testing.T) {
	if err := Serve(context.Background(), Options{}, logger.Discard()); err == nil {
		t.Fatalf("expected error without listen addresses")
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, Options{HTTPAddr: "127.0.0.1:0", GRPCAddr: "127.0.0.1:0", CreateRate: 5, MaxDatasets: 10}, logger.Discard())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned error: %v", err)
		}
	case <-time.After(15 * time.Second):
		t.Fatalf("Serve did not return after cancel")
	}
}

func TestServeBadGRPCAddress(t *testing.T) {
	err := Serve(context.Background(), Options{GRPCAddr: "not-an-address"}, logger.Discard())
	if err == nil {
		t.Fatalf("expected listen error")
	}
}
