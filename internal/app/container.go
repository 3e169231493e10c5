package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/api"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/auth"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/notify"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/pkg/storage"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/proof"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/reservation"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/space"
	"github.com/Samuelvr17/Reservas-ZonasComunitarias/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction  bool
	ProdOrigins   string
	DBPool        *pgxpool.Pool
	JWTSecret     string
	JWTTTL        time.Duration
	BcryptCost    int
	StoragePath   string
	NotifyChannel string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
	Listener   *notify.Listener
	ReadModel  *reservation.ReadModel
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	fileStore, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to init storage: %w", err)
	}

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Space Module
	spaceRepo := space.NewPgxRepository(cfg.DBPool)
	spaceService := space.NewService(spaceRepo)

	// Proof Module
	proofRepo := proof.NewPgxRepository(cfg.DBPool)
	proofService := proof.NewService(proofRepo, fileStore)

	// Reservation Module
	reservationRepo := reservation.NewPgxRepository(cfg.DBPool)
	readModel := reservation.NewReadModel(reservationRepo)
	reservationService := reservation.NewService(reservationRepo, spaceService, proofService, readModel)

	// Change feed: the reservations trigger fires NOTIFY on every
	// insert/update, and each notification reloads the read model.
	listener := notify.NewListener(cfg.DBPool, cfg.NotifyChannel)
	listener.Subscribe(readModel.Invalidate)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:       cfg.IsProduction,
		ProdOrigins:        cfg.ProdOrigins,
		UserService:        userService,
		SpaceService:       spaceService,
		ReservationService: reservationService,
		ReadModel:          readModel,
		ProofService:       proofService,
		JWTManager:         jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		Listener:   listener,
		ReadModel:  readModel,
	}, nil
}
