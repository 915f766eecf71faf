package app

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/beatbook/dj-agency-backend/internal/agency"
	"github.com/beatbook/dj-agency-backend/internal/api"
	"github.com/beatbook/dj-agency-backend/internal/auth"
	"github.com/beatbook/dj-agency-backend/internal/availability"
	"github.com/beatbook/dj-agency-backend/internal/config"
	"github.com/beatbook/dj-agency-backend/internal/dj"
	"github.com/beatbook/dj-agency-backend/internal/event"
	"github.com/beatbook/dj-agency-backend/internal/notify"
	"github.com/beatbook/dj-agency-backend/internal/pkg/clock"
	"github.com/beatbook/dj-agency-backend/internal/pkg/storage"
	"github.com/beatbook/dj-agency-backend/internal/reservation"
	"github.com/beatbook/dj-agency-backend/internal/sweeper"
	"github.com/beatbook/dj-agency-backend/internal/user"
)

// Container holds the initialized components the entrypoint needs.
type Container struct {
	Router    *gin.Engine
	Sweeper   *sweeper.Sweeper
	Publisher notify.Publisher
}

// NewContainer wires every module together. The error paths here are all
// startup failures; once the container exists the process is ready to serve.
func NewContainer(cfg *config.Config, pool *pgxpool.Pool) (*Container, error) {
	passwordHasher := auth.NewBcryptPasswordHasher(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTokenTTL)
	clk := clock.Real()

	// Notification bus. Without a broker URL events go to the process log.
	var publisher notify.Publisher
	if cfg.AMQPURL != "" {
		amqpPublisher, err := notify.NewAMQPPublisher(cfg.AMQPURL)
		if err != nil {
			return nil, err
		}
		publisher = amqpPublisher
	} else {
		log.Println("AMQP_URL not set, publishing events to the log")
		publisher = notify.NewLogPublisher()
	}

	var email notify.EmailSender
	if cfg.SMTPAddr != "" {
		email = notify.NewSMTPSender(cfg.SMTPAddr, cfg.SMTPFrom)
	} else {
		log.Println("SMTP_ADDR not set, writing emails to the log")
		email = notify.NewLogSender()
	}

	fileStore, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	// User module
	userRepo := user.NewPgxRepository(pool)
	userService := user.NewService(userRepo, passwordHasher)

	// Agency module
	agencyRepo := agency.NewPgxRepository(pool)
	agencyService := agency.NewService(agencyRepo)

	// DJ module
	djRepo := dj.NewPgxRepository(pool)
	djService := dj.NewService(djRepo, fileStore, storage.NewImageProcessor())

	// Event module
	eventRepo := event.NewPgxRepository(pool)
	eventService := event.NewService(eventRepo)

	// Availability + reservation modules. The reservation repository doubles
	// as the availability service's blocking-reservation lookup.
	reservationRepo := reservation.NewPgxRepository(pool)
	availabilityRepo := availability.NewPgxRepository(pool)
	availabilityService := availability.NewService(availabilityRepo, djRepo, reservationRepo, clk, cfg.AvailabilityRetentionDays)
	reservationService := reservation.NewService(
		reservationRepo,
		availabilityService,
		availabilityRepo,
		eventRepo,
		pool,
		publisher,
		email,
		clk,
		time.Duration(cfg.HoldDurationMinutes)*time.Minute,
	)

	router := api.NewRouter(api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		UserService:         userService,
		AgencyService:       agencyService,
		DJService:           djService,
		EventService:        eventService,
		AvailabilityService: availabilityService,
		ReservationService:  reservationService,
		JWTManager:          jwtManager,
	})

	return &Container{
		Router:    router,
		Sweeper:   sweeper.New(reservationService, cfg.HoldSweepInterval),
		Publisher: publisher,
	}, nil
}
