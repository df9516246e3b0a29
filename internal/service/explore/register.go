package explore

import (
	"google.golang.org/grpc"

	"github.com/oggyb/muzz-web/internal/app"
)

// Registrar ties the MatchService into the gRPC server
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the Explore service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the MatchService implementation to the gRPC server
func (r *Registrar) Register(s *grpc.Server) {
	s.RegisterService(&MatchServiceDesc, NewMatchGRPC(NewExploreService(r.appCtx)))
}
