package config

import (
	"wallet-service/src/internal/delivery/http"
	"wallet-service/src/internal/delivery/http/middleware"
	"wallet-service/src/internal/delivery/http/route"
	"wallet-service/src/internal/gateway/messaging"
	"wallet-service/src/internal/repository"
	"wallet-service/src/internal/usecase"
	"wallet-service/src/pkg/databases/mysql"
	kafkaPkgConfluent "wallet-service/src/pkg/kafka/confluent"
	"wallet-service/src/pkg/log"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

type BootstrapConfig struct {
	DB          mysql.DBInterface
	App         *fiber.App
	Log         log.Log
	Validate    *validator.Validate
	Config      *viper.Viper
	Producer    kafkaPkgConfluent.Producer
	Redis       redis.UniversalClient
	AsynqClient *asynq.Client
	Async       *asynq.ServeMux
}

func Bootstrap(config *BootstrapConfig) {
	// setup repositories
	userRepository := repository.NewUserRepository(config.DB)
	walletRepository := repository.NewWalletRepository(config.DB)
	transactionRepository := repository.NewTransactionRepository(config.DB)
	withdrawalRepository := repository.NewWithdrawalRepository(config.DB)
	permitRepository := repository.NewPermitRepository(config.DB)
	vehicleRepository := repository.NewVehicleRepository(config.DB)
	withdrawalProducer := messaging.NewWithdrawalProducer(config.Producer, config.Log)
	permitProducer := messaging.NewPermitProducer(config.Producer, config.Log)

	// setup use cases
	ledgerUseCase := usecase.NewLedgerUseCase(
		config.Log,
		transactionRepository,
		walletRepository,
		config.Redis,
	)

	walletUseCase := usecase.NewWalletUseCase(
		config.Log,
		config.Validate,
		ledgerUseCase,
		walletRepository,
		transactionRepository,
		userRepository,
		config.Redis,
	)

	withdrawalUseCase := usecase.NewWithdrawalUseCase(
		config.Log,
		config.Validate,
		ledgerUseCase,
		withdrawalRepository,
		transactionRepository,
		walletRepository,
		userRepository,
		withdrawalProducer,
		config.AsynqClient,
	)

	permitUseCase := usecase.NewPermitUseCase(
		config.Log,
		config.Validate,
		transactionRepository,
		permitRepository,
		vehicleRepository,
		permitProducer,
		config.AsynqClient,
	)

	// setup controller
	walletController := http.NewWalletController(walletUseCase, config.Log)
	withdrawalController := http.NewWithdrawalController(withdrawalUseCase, config.Log)
	permitController := http.NewPermitController(permitUseCase, config.Log)

	// setup middleware
	authMiddleware := middleware.VerifyBearer(config.Config)

	if config.Async != nil {
		config.Async.HandleFunc(usecase.TypeLedgerReconcile, ledgerUseCase.HandleReconcile)
	}

	routeConfig := route.RouteConfig{
		App:                  config.App,
		WalletController:     walletController,
		WithdrawalController: withdrawalController,
		PermitController:     permitController,
		AuthMiddleware:       authMiddleware,
	}
	routeConfig.Setup()
}
