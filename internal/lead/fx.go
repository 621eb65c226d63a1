package lead

import (
	"github.com/salespool/leadrotor/internal/lead/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("lead",
	fx.Provide(repository.Provide),
)
