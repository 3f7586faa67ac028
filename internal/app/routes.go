package app

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"

	"github.com/mpaternostro/basic-crud/internal/auth"
	"github.com/mpaternostro/basic-crud/internal/config"
	"github.com/mpaternostro/basic-crud/internal/graphql"
	"github.com/mpaternostro/basic-crud/internal/handlers"
	"github.com/mpaternostro/basic-crud/internal/repo"
	"github.com/mpaternostro/basic-crud/internal/service"
)

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *pgxpool.Pool, log *logrus.Logger) error {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
	))

	returning := !cfg.PG.DisableReturning
	userRepo := repo.NewPGUserRepo(db, returning)
	todoRepo := repo.NewPGTodoRepo(db, returning)
	userSvc := service.NewUserService(userRepo, cfg.Hash.BcryptCost)
	todoSvc := service.NewTodoService(todoRepo)
	tokens := auth.NewTokenService(cfg.JWT)

	authHandler := handlers.NewAuthHandler(userSvc, tokens, log)
	registerAuthRoutes(r.Group("/auth"), authHandler, tokens, userSvc)

	schema, err := graphql.NewSchema(userSvc, todoSvc, log)
	if err != nil {
		return err
	}
	gql := graphql.NewHTTPHandler(schema)
	// GET serves the Playground; query execution requires a valid access token.
	r.GET("/graphql", gin.WrapH(gql))
	r.POST("/graphql", auth.RequireAccessToken(tokens, userSvc), gin.WrapH(gql))

	return nil
}

func registerAuthRoutes(g *gin.RouterGroup, h *handlers.AuthHandler, tokens *auth.TokenService, users *service.UserService) {
	g.POST("/register", h.Register)
	g.POST("/login", auth.RequireLocalCredentials(users), h.Login)
	g.GET("/refresh", auth.RequireRefreshToken(tokens, users), h.Refresh)
	g.POST("/logout", auth.RequireAccessToken(tokens, users), h.Logout)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Basic CRUD API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"graphql": "/graphql",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}
