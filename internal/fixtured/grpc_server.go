package fixtured

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/logger"
)

// FixtureServiceName is the fully qualified gRPC service name
const FixtureServiceName = "topogen.v1.FixtureService"

// FixtureServiceServer is the gRPC surface of the fixture daemon. Requests
// and replies are structpb documents shaped like the HTTP JSON bodies.
type FixtureServiceServer interface {
	CreateDataset(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetDataset(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StopDataset(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetResponse(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func unaryHandler(method string, call func(FixtureServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(FixtureServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + FixtureServiceName + "/" + method,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(FixtureServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// FixtureServiceDesc describes the fixture service for grpc.ServiceRegistrar
var FixtureServiceDesc = grpc.ServiceDesc{
	ServiceName: FixtureServiceName,
	HandlerType: (*FixtureServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateDataset", Handler: unaryHandler("CreateDataset", FixtureServiceServer.CreateDataset)},
		{MethodName: "GetDataset", Handler: unaryHandler("GetDataset", FixtureServiceServer.GetDataset)},
		{MethodName: "StopDataset", Handler: unaryHandler("StopDataset", FixtureServiceServer.StopDataset)},
		{MethodName: "GetResponse", Handler: unaryHandler("GetResponse", FixtureServiceServer.GetResponse)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "topogen/v1/fixture.proto",
}

func RegisterFixtureServiceServer(s grpc.ServiceRegistrar, srv FixtureServiceServer) {
	s.RegisterService(&FixtureServiceDesc, srv)
}

// RegisterHealth registers the standard health service and marks the fixture
// service as serving.
func RegisterHealth(s grpc.ServiceRegistrar) *health.Server {
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	hs.SetServingStatus(FixtureServiceName, healthpb.HealthCheckResponse_SERVING)
	return hs
}

// NewGRPCServer builds a grpc.Server with the fixture and health services
func NewGRPCServer(store *DatasetStore, executor *Executor) (*grpc.Server, *health.Server) {
	s := grpc.NewServer()
	RegisterFixtureServiceServer(s, NewFixtureGRPCServer(store, executor))
	return s, RegisterHealth(s)
}

// FixtureGRPCServer implements FixtureServiceServer over a DatasetStore
type FixtureGRPCServer struct {
	store    *DatasetStore
	Executor *Executor
}

func NewFixtureGRPCServer(store *DatasetStore, executor *Executor) *FixtureGRPCServer {
	return &FixtureGRPCServer{
		store:    store,
		Executor: executor,
	}
}

func (s *FixtureGRPCServer) CreateDataset(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var create createRequest
	if req != nil {
		fields := req.GetFields()
		if c, ok := fields["config"]; ok && c.GetStructValue() != nil {
			raw, err := c.GetStructValue().MarshalJSON()
			if err != nil {
				return nil, status.Error(codes.InvalidArgument, err.Error())
			}
			create.Config = raw
		}
		create.Anchor = fields["anchor"].GetStringValue()
	}

	cfg, anchor, err := parseCreateRequest(create)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	ds, created, err := s.Executor.Submit(cfg, anchor)
	if err != nil {
		return nil, grpcError(err)
	}
	if created {
		logger.Info("dataset created (gRPC)", "dataset_id", ds.ID)
	}
	return toStruct(map[string]any{
		"dataset": datasetToJSON(ds),
		"created": created,
	})
}

func (s *FixtureGRPCServer) GetDataset(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, err
	}
	ds, ok := s.store.Get(id)
	if !ok {
		return nil, status.Error(codes.NotFound, "dataset not found")
	}
	return toStruct(map[string]any{"dataset": datasetToJSON(ds)})
}

func (s *FixtureGRPCServer) StopDataset(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, err
	}
	ds, err := s.Executor.Stop(id)
	if err != nil {
		return nil, grpcError(err)
	}
	return toStruct(map[string]any{"dataset": datasetToJSON(ds)})
}

func (s *FixtureGRPCServer) GetResponse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := requireID(req)
	if err != nil {
		return nil, err
	}
	ds, ok := s.store.Get(id)
	if !ok {
		return nil, status.Error(codes.NotFound, "dataset not found")
	}
	resp, err := BuildResponse(ds, req.GetFields()["name"].GetStringValue())
	if err != nil {
		return nil, grpcError(err)
	}
	return toStruct(resp)
}

func requireID(req *structpb.Struct) (string, error) {
	id := req.GetFields()["id"].GetStringValue()
	if id == "" {
		return "", status.Error(codes.InvalidArgument, ErrDatasetIDMissing.Error())
	}
	return id, nil
}

func grpcError(err error) error {
	switch {
	case errors.Is(err, ErrDatasetNotFound), errors.Is(err, ErrUnknownArtifact):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ErrDatasetTerminal), errors.Is(err, ErrDatasetNotReady):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, ErrDatasetIDMissing):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// toStruct converts any JSON-encodable value into a structpb.Struct.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// FixtureClient calls the fixture service over a client connection
type FixtureClient struct {
	cc grpc.ClientConnInterface
}

func NewFixtureClient(cc grpc.ClientConnInterface) *FixtureClient {
	return &FixtureClient{cc: cc}
}

func (c *FixtureClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+FixtureServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateDataset submits cfgJSON (nil for defaults) with an optional anchor
func (c *FixtureClient) CreateDataset(ctx context.Context, cfgJSON []byte, anchor time.Time, opts ...grpc.CallOption) (*structpb.Struct, error) {
	req := map[string]any{}
	if len(cfgJSON) > 0 {
		var cfg map[string]any
		if err := json.Unmarshal(cfgJSON, &cfg); err != nil {
			return nil, err
		}
		req["config"] = cfg
	}
	if !anchor.IsZero() {
		req["anchor"] = anchor.UTC().Format(time.RFC3339Nano)
	}
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, err
	}
	return c.invoke(ctx, "CreateDataset", in, opts...)
}

func (c *FixtureClient) GetDataset(ctx context.Context, id string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	return c.invoke(ctx, "GetDataset", in, opts...)
}

func (c *FixtureClient) StopDataset(ctx context.Context, id string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	return c.invoke(ctx, "StopDataset", in, opts...)
}

func (c *FixtureClient) GetResponse(ctx context.Context, id, name string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(map[string]any{"id": id, "name": name})
	if err != nil {
		return nil, err
	}
	return c.invoke(ctx, "GetResponse", in, opts...)
}
