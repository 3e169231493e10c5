package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/auth"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/proof"
	proofHttp "github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/proof/http"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/reservation"
	reservationHttp "github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/reservation/http"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/space"
	spaceHttp "github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/space/http"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/user"
	userHttp "github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/user/http"
)

// Config holds everything the router needs to assemble the HTTP API.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService        user.Service
	SpaceService       space.Service
	ReservationService reservation.Service
	ReadModel          *reservation.ReadModel
	ProofService       proof.Service
	JWTManager         *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:8081", // Swagger
			"http://localhost:5173", // Vite dev server
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// adminMiddleware: Further checks if the authenticated user is an administrator.
	adminMiddleware := RequireAdmin(cfg.UserService)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	authHandler := NewAuthHandler(cfg.UserService, cfg.JWTManager)
	userHandler := userHttp.NewHandler(cfg.UserService)
	spaceHandler := spaceHttp.NewHandler(cfg.SpaceService)
	reservationHandler := reservationHttp.NewHandler(cfg.ReservationService, cfg.ReadModel, cfg.UserService)
	proofHandler := proofHttp.NewHandler(cfg.ProofService, cfg.UserService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)

		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, adminMiddleware)
		spaceHttp.RegisterRoutes(v1, spaceHandler, authMiddleware, adminMiddleware)
		reservationHttp.RegisterRoutes(v1, reservationHandler, authMiddleware, adminMiddleware)
		proofHttp.RegisterRoutes(v1, proofHandler, authMiddleware)
	}

	return r
}
