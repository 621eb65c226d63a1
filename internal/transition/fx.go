package transition

import (
	"github.com/salespool/leadrotor/internal/transition/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("transition",
	fx.Provide(repository.Provide),
)
