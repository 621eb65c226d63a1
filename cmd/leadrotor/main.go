package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/salespool/leadrotor/internal/clock"
	"github.com/salespool/leadrotor/internal/config"
	"github.com/salespool/leadrotor/internal/migration"
	"github.com/salespool/leadrotor/internal/observability"
	"github.com/salespool/leadrotor/internal/server"
	"github.com/salespool/leadrotor/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// Schema and seed run before the server accepts traffic.
		migration.Module,

		// HTTP surface plus every domain module it serves.
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
