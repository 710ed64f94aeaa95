// Package httpserver manages server creation and api routing.
package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/d-morgun/proto-bank/internal/accountdelivery"
	"github.com/d-morgun/proto-bank/internal/accountrepo"
	"github.com/d-morgun/proto-bank/internal/accountservice"
	"github.com/d-morgun/proto-bank/internal/middleware"
	"github.com/d-morgun/proto-bank/pkg/configpkg"
)

// Server holds the handlers router and configuration.
type Server struct {
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// Run starts listening on the configured address.
func (s *Server) Run() error {
	return s.Engine.Run(s.Config.ServerAddress)
}

// New creates Server type with instantiated domains and routes.
func New(logger zerolog.Logger, config configpkg.Config) *Server {
	accountRepo := accountrepo.NewRepoMem()
	accountService := accountservice.New(accountRepo)
	accountHandler := accountdelivery.NewHandler(accountService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/user", accountHandler.Create)
	engine.POST("/deposit", accountHandler.Deposit)
	engine.POST("/withdraw", accountHandler.Withdraw)
	engine.POST("/balance", accountHandler.Balance)
	engine.POST("/send", accountHandler.Send)

	return &Server{
		Engine: engine,
		Config: config,
	}
}
