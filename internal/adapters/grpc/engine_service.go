package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const engineServiceName = "slotworks.v1.Engine"

// EngineServer is the daemon-side engine API
type EngineServer interface {
	EngineInfo(ctx context.Context, req *EngineInfoRequest) (*EngineInfoReply, error)

	PlaceUnit(ctx context.Context, req *PlaceUnitRequest) (*PlaceUnitReply, error)
	InsertInput(ctx context.Context, req *InsertInputRequest) (*InsertInputReply, error)
	ExtractOutput(ctx context.Context, req *ExtractOutputRequest) (*ExtractOutputReply, error)
	DepositResource(ctx context.Context, req *DepositResourceRequest) (*DepositResourceReply, error)
	UnitStatus(ctx context.Context, req *UnitStatusRequest) (*UnitMessage, error)
	ListUnits(ctx context.Context, req *ListUnitsRequest) (*ListUnitsReply, error)

	PlaceMinigame(ctx context.Context, req *PlaceMinigameRequest) (*PlaceMinigameReply, error)
	AddIngredient(ctx context.Context, req *AddIngredientRequest) (*AddIngredientReply, error)
	StartCooking(ctx context.Context, req *MinigameRequest) (*PhaseReply, error)
	RemoveProduct(ctx context.Context, req *MinigameRequest) (*ResolutionReply, error)
	CancelCooking(ctx context.Context, req *MinigameRequest) (*PhaseReply, error)
	ExtractProduct(ctx context.Context, req *MinigameRequest) (*ExtractProductReply, error)
	MinigameStatus(ctx context.Context, req *MinigameRequest) (*MinigameMessage, error)
}

// RegisterEngineServer registers srv on s
func RegisterEngineServer(s grpc.ServiceRegistrar, srv EngineServer) {
	s.RegisterService(&engineServiceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + engineServiceName + "/" + name
}

// unary builds the method descriptor of one request/reply pair
func unary[Req any, Reply any](name string, call func(EngineServer, context.Context, *Req) (*Reply, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(EngineServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(EngineServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var engineServiceDesc = grpc.ServiceDesc{
	ServiceName: engineServiceName,
	HandlerType: (*EngineServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("EngineInfo", EngineServer.EngineInfo),
		unary("PlaceUnit", EngineServer.PlaceUnit),
		unary("InsertInput", EngineServer.InsertInput),
		unary("ExtractOutput", EngineServer.ExtractOutput),
		unary("DepositResource", EngineServer.DepositResource),
		unary("UnitStatus", EngineServer.UnitStatus),
		unary("ListUnits", EngineServer.ListUnits),
		unary("PlaceMinigame", EngineServer.PlaceMinigame),
		unary("AddIngredient", EngineServer.AddIngredient),
		unary("StartCooking", EngineServer.StartCooking),
		unary("RemoveProduct", EngineServer.RemoveProduct),
		unary("CancelCooking", EngineServer.CancelCooking),
		unary("ExtractProduct", EngineServer.ExtractProduct),
		unary("MinigameStatus", EngineServer.MinigameStatus),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "slotworks/v1/engine",
}
