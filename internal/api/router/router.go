package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"tcms/internal/api/handler"
	"tcms/internal/api/middleware"
	"tcms/internal/pkg/config"
	"tcms/internal/pkg/jwt"
	"tcms/internal/repository"
	"tcms/internal/rpc"
	"tcms/internal/service"
)

// Setup 设置路由, 返回的 AuthService 供定时任务清理会话
func Setup(cfg *config.Config, db *gorm.DB) (*gin.Engine, service.AuthService) {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化Repository
	productRepo := repository.NewProductRepository(db)
	buildRepo := repository.NewBuildRepository(db)
	runRepo := repository.NewTestRunRepository(db)
	caseRunRepo := repository.NewTestCaseRunRepository(db)
	casePlanRepo := repository.NewTestCasePlanRepository(db)
	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	// 初始化Service
	resolver := service.NewResolver(productRepo, buildRepo)
	buildService := service.NewBuildService(resolver, buildRepo, runRepo, caseRunRepo)
	casePlanService := service.NewTestCasePlanService(casePlanRepo)
	ldapService := service.NewLDAPService(&cfg.Auth.LDAP)
	authService := service.NewAuthService(&cfg.Auth, jwt.NewIssuer(&cfg.Auth.JWT), userRepo, sessionRepo, ldapService)

	// 注册 RPC 方法
	server := rpc.NewServer()
	rpc.RegisterMethods(server, &rpc.Services{
		Build:    buildService,
		CasePlan: casePlanService,
		Auth:     authService,
	})
	rpcHandler := handler.NewRPCHandler(server, cfg.RPC.MaxBodyBytes)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.SessionMiddleware(authService))

	r.GET("/health", handler.Health)

	// Swagger API 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.POST(cfg.RPC.Path, rpcHandler.Handle)

	return r, authService
}
