//go:build wireinject
// +build wireinject

package main

import (
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"

	"productmanagement/cmd/product-service/internal/biz"
	"productmanagement/cmd/product-service/internal/conf"
	"productmanagement/cmd/product-service/internal/data"
	"productmanagement/cmd/product-service/internal/server"
	"productmanagement/cmd/product-service/internal/service"
)

// wireApp 初始化应用
func wireApp(*conf.Config, log.Logger) (*app, func(), error) {
	panic(wire.Build(
		data.ProviderSet,
		biz.ProviderSet,
		service.ProviderSet,
		server.ProviderSet,
		wire.Bind(new(server.DocumentPinger), new(*data.Data)),
		newApp,
	))
}
