package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Guyuepp/bucket-filter/domain"
	"github.com/Guyuepp/bucket-filter/internal/repository/bolt"
	mysqlRepo "github.com/Guyuepp/bucket-filter/internal/repository/mysql"
	"github.com/Guyuepp/bucket-filter/internal/repository/mysql/model"
	redisRepo "github.com/Guyuepp/bucket-filter/internal/repository/redis"
	"github.com/Guyuepp/bucket-filter/internal/rest"
	"github.com/Guyuepp/bucket-filter/internal/rest/middleware"
	"github.com/Guyuepp/bucket-filter/internal/signature"
	"github.com/Guyuepp/bucket-filter/internal/stats"
	"github.com/Guyuepp/bucket-filter/internal/usecase/gate"
	"github.com/Guyuepp/bucket-filter/internal/workers"
)

const (
	dbMaxRetry         = 10
	dbRetryIntervalSec = 2
	shutdownTimeout    = 5 * time.Second
)

func init() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("no .env file loaded, using the process environment")
	}
}

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}
	logrus.SetLevel(cfg.LogLevel)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	db, err := openDB(cfg)
	if err != nil {
		logrus.Fatal("could not connect to database after retries: ", err)
	}
	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			logrus.Error("got error when getting sql.DB from gorm.DB: ", err)
			return
		}
		if err := sqlDB.Close(); err != nil {
			logrus.Error("got error when closing the DB connection: ", err)
		}
	}()

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.CacheHost + ":" + cfg.CachePort,
		Password: cfg.CachePass,
		DB:       cfg.CacheDB,
	})
	defer func() {
		if err := client.Close(); err != nil {
			logrus.Error("got error when closing the cache connection: ", err)
		}
	}()
	if err := client.Ping(context.Background()).Err(); err != nil {
		logrus.Fatal("failed to open connection to cache: ", err)
	}

	hasher, err := signature.NewHasher(&signature.Options{
		Capacity: cfg.SignatureCapacity,
		ErrRate:  cfg.SignatureErrRate,
	})
	if err != nil {
		logrus.Fatal("invalid signature options: ", err)
	}

	// Prepare Repository
	itemRepo := mysqlRepo.NewItemRepository(db)
	statsRepo := mysqlRepo.NewStatsRepository(db, cfg.BucketSchema)

	var sigRepo domain.SignatureRepository[signature.Bits]
	switch cfg.SignatureSource {
	case "mysql":
		if err := db.AutoMigrate(&model.BucketSignature{}); err != nil {
			logrus.Fatal("failed to migrate signature table: ", err)
		}
		sigRepo = mysqlRepo.NewSignatureRepository(db)
	default:
		sigRepo = redisRepo.NewSignatureRepo(client)
	}

	var bucketRepo domain.BucketRepository
	switch cfg.BucketSource {
	case "redis":
		bucketRepo = redisRepo.NewBucketRepo(client)
	default:
		bucketRepo = mysqlRepo.NewBucketRepository(db, cfg.BucketSchema)
	}

	var snapshot gate.Snapshotter
	if cfg.SnapshotPath != "" {
		snap, err := bolt.OpenSnapshot(cfg.SnapshotPath)
		if err != nil {
			logrus.Fatal("failed to open snapshot: ", err)
		}
		defer func() {
			if err := snap.Close(); err != nil {
				logrus.Error("got error when closing the snapshot: ", err)
			}
		}()
		snapshot = snap
	}

	// Build service Layer
	svc, err := gate.NewService(sigRepo, bucketRepo, itemRepo, stats.NewEstimator(statsRepo), snapshot, gate.Config{
		Scope:         domain.NewBucket(cfg.SignatureScope),
		Hasher:        hasher,
		IndexScanCost: float32(cfg.IxScanCost),
		SeqScanCost:   float32(cfg.SeqScanCost),
		StaleAfter:    cfg.StaleAfter,
		DoubleCheck:   cfg.DoubleCheck,
	})
	if err != nil {
		logrus.Fatal("failed to build gate service: ", err)
	}

	// Start worker，写入后由 worker 刷新签名
	worker := workers.NewRefreshWorker(svc, cfg.RefreshInterval)
	svc.SetWorker(worker)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := svc.WarmStart(ctx); err != nil {
		logrus.Warnf("failed to warm start from snapshot: %v", err)
	}
	if _, err := svc.Refresh(ctx); err != nil {
		logrus.Warnf("initial refresh failed, the worker will retry: %v", err)
	}

	// prepare gin
	route := gin.New()
	route.Use(gin.Recovery(), middleware.Logger())
	route.Use(middleware.SetRequestContextWithTimeout(cfg.ContextTimeout))
	rest.NewBucketHandler(svc).Register(route)

	srv := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: route,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		worker.Start(gctx)
		return nil
	})
	g.Go(func() error {
		logrus.Infof("Server is running on %s", cfg.ServerAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logrus.Info("Shutdown signal received, stopping server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logrus.Errorf("server stopped: %v", err)
	}
	logrus.Info("Server exiting")
}

func openDB(cfg *Config) (*gorm.DB, error) {
	connection := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	val := url.Values{}
	val.Add("parseTime", "1")
	val.Add("loc", "Local")
	dsn := fmt.Sprintf("%s?%s", connection, val.Encode())

	var (
		db  *gorm.DB
		err error
	)
	for i := range dbMaxRetry {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			SkipDefaultTransaction: true,
			Logger:                 logger.Default.LogMode(logger.Warn),
		})
		if err != nil {
			logrus.Warnf("failed to open connection to database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
		} else {
			sqlDB, dbErr := db.DB()
			if dbErr == nil {
				if err = sqlDB.Ping(); err == nil {
					return db, nil
				}
				logrus.Warnf("failed to ping database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
				_ = sqlDB.Close()
			} else {
				err = dbErr
			}
		}
		time.Sleep(dbRetryIntervalSec * time.Second)
	}
	return nil, err
}
