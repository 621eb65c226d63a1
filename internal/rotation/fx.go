package rotation

import (
	"github.com/salespool/leadrotor/internal/rotation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rotation",
	fx.Provide(service.New),
)
