package server

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-ledger/internal/ledger"
	"resume-ledger/internal/resumes"
	"resume-ledger/internal/services/health"
	"resume-ledger/internal/shared/config"
	"resume-ledger/internal/shared/metrics"
	"resume-ledger/internal/shared/server/middleware"
	"resume-ledger/internal/shared/server/respond"
	"resume-ledger/internal/shared/storage/db"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
	)

	// Relational store.
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var repo resumes.Repo
	if sqlDB != nil {
		repo = &resumes.PGRepo{DB: sqlDB}
	} else {
		repo = resumes.NewMemoryRepo()
	}

	// Ledger client. The contract address comes from configuration; the
	// service never deploys contracts.
	account, err := ledger.NewAccount(cfg.LedgerPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("ledger signing account: %w", err)
	}
	contract, err := ledger.ParseAddress(cfg.LedgerContractAddress)
	if err != nil {
		return nil, fmt.Errorf("ledger contract address: %w", err)
	}

	node := ledger.NewObservedNode(
		ledger.NewRPCNode(cfg.LedgerRPCURL, ledger.RPCNodeOptions{
			RequestsPerSecond: cfg.LedgerRPCRate,
		}),
		metrics.NewLedgerRPC(),
	)
	ledgerClient := ledger.NewClient(node, account, contract, ledger.ClientOptions{
		ConfirmTimeout: cfg.LedgerConfirmTimeout,
		PollInterval:   cfg.LedgerPollInterval,
	})

	resumeSvc := &resumes.Service{Repo: repo, Ledger: ledgerClient}
	resumeHandler := resumes.NewHandler(resumeSvc)
	ledgerHandler := ledger.NewHandler(ledgerClient)

	healthSvc := health.NewService(dbPinger(sqlDB), nodePinger(node, account.Address()))

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status(c.Request.Context()))
	})
	resumeHandler.RegisterRoutes(api)

	admin := api.Group("/", middleware.AdminToken(cfg.AdminToken))
	ledgerHandler.RegisterRoutes(admin)

	return r, nil
}

func dbPinger(sqlDB *sql.DB) health.Pinger {
	if sqlDB == nil {
		return nil
	}
	return health.PingFunc(func(ctx context.Context) error {
		return sqlDB.PingContext(ctx)
	})
}

func nodePinger(node ledger.Node, addr ledger.Address) health.Pinger {
	return health.PingFunc(func(ctx context.Context) error {
		_, err := node.TransactionCount(ctx, addr)
		return err
	})
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
