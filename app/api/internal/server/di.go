package server

import (
	"github.com/google/wire"
	"github.com/iWorld-y/pain_radar/app/api/internal/data"
	"github.com/iWorld-y/pain_radar/app/api/internal/middleware"
	"github.com/iWorld-y/pain_radar/app/api/internal/service"
	"github.com/iWorld-y/pain_radar/app/api/internal/usecase"
)

// ProviderSet 是 API 服务的依赖注入 Provider 集合
var ProviderSet = wire.NewSet(
	// Server providers
	NewHTTPServer,
	middleware.NewMetrics,

	// Data providers
	data.NewData,
	data.NewOpportunityRepo,

	// UseCase providers
	usecase.NewOpportunityUseCase,

	// Service providers
	service.NewOpportunityService,
)
