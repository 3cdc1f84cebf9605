package main

import (
	"context"
	"log"
	"os"

	"github.com/carelinkvn/clinic-app/config"
	"github.com/carelinkvn/clinic-app/database"
	"github.com/carelinkvn/clinic-app/repository"
	"github.com/carelinkvn/clinic-app/router"
	"github.com/carelinkvn/clinic-app/services"
	"github.com/carelinkvn/clinic-app/utils"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func init() {
	// Load file .env truoc khi doc config
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate database: %v", err)
	}

	// Kiem tra Redis som de bao loi cau hinh ngay khi khoi dong
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		utils.ErrorLogger.Printf("Warning: Redis at %s not reachable, delayed cancellation will retry: %v", cfg.RedisAddr, err)
	}
	_ = rdb.Close()

	// Hang doi huy thanh toan tre
	queueSvc := services.NewQueueService(cfg.RedisAddr)
	defer queueSvc.Close()

	orderRepo := repository.NewOrderRepository(db)
	sepaySvc := services.NewSepayService(cfg)
	paymentSvc := services.NewPaymentService(orderRepo, sepaySvc, queueSvc, cfg)

	// Worker xu ly task het han chay nen trong cung process
	worker, mux := services.NewQueueWorker(cfg.RedisAddr, paymentSvc)
	if err := worker.Start(mux); err != nil {
		utils.ErrorLogger.Fatalf("Failed to start queue worker: %v", err)
	}
	defer worker.Shutdown()

	r := router.SetupRouter(db, cfg, queueSvc)

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
