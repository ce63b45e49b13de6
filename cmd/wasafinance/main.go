package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/wasafinance/internal/clock"
	"github.com/smallbiznis/wasafinance/internal/config"
	"github.com/smallbiznis/wasafinance/internal/migration"
	"github.com/smallbiznis/wasafinance/internal/observability"
	"github.com/smallbiznis/wasafinance/internal/scheduler"
	"github.com/smallbiznis/wasafinance/internal/server"
	"github.com/smallbiznis/wasafinance/pkg/db"
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

		// Schema and bootstrap admin run before the listener starts.
		migration.Module,
		server.Module,
		scheduler.Module,
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
