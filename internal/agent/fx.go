package agent

import (
	"github.com/salespool/leadrotor/internal/agent/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("agent",
	fx.Provide(repository.Provide),
)
