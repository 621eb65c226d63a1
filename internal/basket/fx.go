package basket

import (
	"github.com/salespool/leadrotor/internal/basket/repository"
	"github.com/salespool/leadrotor/internal/basket/service"
	"go.uber.org/fx"
)

var Module = fx.Module("basket",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
