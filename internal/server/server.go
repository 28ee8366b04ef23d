package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/autohaven/apiserver/config"
	"github.com/autohaven/apiserver/internal/db"
	"github.com/autohaven/apiserver/internal/handlers"
	"github.com/autohaven/apiserver/internal/mq"
	"github.com/autohaven/apiserver/internal/services"
	"github.com/autohaven/apiserver/internal/storage"
	"github.com/autohaven/apiserver/internal/store"
	"github.com/autohaven/apiserver/internal/store/memory"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server wraps the HTTP server, router, and backend connections.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	broker     *mq.MQ
	logger     *zap.Logger
}

// repositories groups the record-store interfaces behind one value so
// backend selection stays in a single place.
type repositories struct {
	users     services.UserRepository
	cars      services.CarRepository
	messages  services.MessageRepository
	reviews   services.ReviewRepository
	favorites services.FavoriteRepository
}

// New constructs a Server with the configured store, storage, and
// broker backends.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	logger, err := newLogger(cfg.Env)
	if err != nil {
		return nil, err
	}

	jwtSecret := strings.TrimSpace(cfg.JWTSecret)
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	repos, dbConn, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	imageStorage, err := openStorage(ctx, cfg)
	if err != nil {
		closeAll(dbConn, nil)
		return nil, err
	}

	broker, err := openBroker(ctx, cfg)
	if err != nil {
		closeAll(dbConn, nil)
		return nil, err
	}
	events := mq.NewPublisher(broker, logger)

	userService := services.NewUserService(repos.users)
	carService := services.NewCarService(repos.cars, imageStorage, events, logger)
	messageService := services.NewMessageService(repos.messages, events)
	reviewService := services.NewReviewService(repos.reviews)
	favoriteService := services.NewFavoriteService(repos.favorites, repos.cars)

	authMiddleware := handlers.RequireAuth(jwtSecret)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			handlers.AuthRouter(r, userService, jwtSecret)
		})
		r.Route("/users", func(r chi.Router) {
			handlers.UserRouter(r, userService, carService, reviewService, authMiddleware)
		})
		r.Route("/cars", func(r chi.Router) {
			handlers.CarRouter(r, carService, reviewService, authMiddleware)
		})
		r.Route("/messages", func(r chi.Router) {
			handlers.MessageRouter(r, messageService, userService, authMiddleware)
		})
		r.Route("/reviews", func(r chi.Router) {
			handlers.ReviewRouter(r, reviewService, carService, authMiddleware)
		})
		r.Route("/favorites", func(r chi.Router) {
			handlers.FavoriteRouter(r, favoriteService, carService, authMiddleware)
		})
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server configured",
		zap.Int("port", port),
		zap.String("store", cfg.StoreBackend),
		zap.String("storage", cfg.StorageBackend),
		zap.String("mq", cfg.MQBackend),
	)

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		broker:     broker,
		logger:     logger,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	closeAll(s.db, s.broker)
	if s.logger != nil {
		_ = s.logger.Sync()
	}
	return s.httpServer.Close()
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// openStore selects the record store backend. The memory store starts
// seeded with sample listings so the API is usable out of the box.
func openStore(ctx context.Context, cfg config.Config) (repositories, *sql.DB, error) {
	switch cfg.StoreBackend {
	case "memory", "":
		users := memory.NewUserRepository()
		cars := memory.NewCarRepository()
		if err := memory.Seed(ctx, users, cars); err != nil {
			return repositories{}, nil, fmt.Errorf("seed memory store: %w", err)
		}
		return repositories{
			users:     users,
			cars:      cars,
			messages:  memory.NewMessageRepository(),
			reviews:   memory.NewReviewRepository(),
			favorites: memory.NewFavoriteRepository(),
		}, nil, nil

	case "postgres":
		dbConn, err := db.Open(ctx, cfg)
		if err != nil {
			return repositories{}, nil, err
		}
		return repositories{
			users:     store.NewUserRepository(dbConn),
			cars:      store.NewCarRepository(dbConn),
			messages:  store.NewMessageRepository(dbConn),
			reviews:   store.NewReviewRepository(dbConn),
			favorites: store.NewFavoriteRepository(dbConn),
		}, dbConn, nil

	default:
		return repositories{}, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// openStorage selects the listing-image storage backend. With "none",
// image uploads are rejected but everything else works.
func openStorage(ctx context.Context, cfg config.Config) (*storage.Storage, error) {
	var backend storage.ObjectStorage

	switch cfg.StorageBackend {
	case "none", "":
		return nil, nil
	case "minio":
		client, err := storage.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		backend = client
	case "gcs":
		client, err := storage.NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		backend = client
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	if err := backend.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return storage.NewStorage(backend), nil
}

// openBroker selects the event broker backend. With "none", lifecycle
// events are silently dropped.
func openBroker(ctx context.Context, cfg config.Config) (*mq.MQ, error) {
	switch cfg.MQBackend {
	case "none", "":
		return nil, nil
	case "rabbitmq":
		client, err := mq.NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return mq.New(client), nil
	case "pubsub":
		client, err := mq.NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return mq.New(client), nil
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.MQBackend)
	}
}

func closeAll(dbConn *sql.DB, broker *mq.MQ) {
	if dbConn != nil {
		_ = dbConn.Close()
	}
	if broker != nil {
		_ = broker.Close()
	}
}
