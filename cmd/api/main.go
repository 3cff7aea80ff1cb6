package main

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "github.com/Godwinki/oya-backend/internal/adapter/http"
	"github.com/Godwinki/oya-backend/internal/adapter/middleware"
	"github.com/Godwinki/oya-backend/internal/adapter/repository/mysql"
	"github.com/Godwinki/oya-backend/internal/audit"
	"github.com/Godwinki/oya-backend/internal/config"
	"github.com/Godwinki/oya-backend/internal/event"
	"github.com/Godwinki/oya-backend/internal/infrastructure/cache"
	"github.com/Godwinki/oya-backend/internal/infrastructure/db"
	"github.com/Godwinki/oya-backend/internal/infrastructure/mq"
	"github.com/Godwinki/oya-backend/internal/logging"
	"github.com/Godwinki/oya-backend/internal/notifier"
	"github.com/Godwinki/oya-backend/internal/pdf"
	"github.com/Godwinki/oya-backend/internal/usecase/expense"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.Env)
	defer log.Sync() //nolint:errcheck

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	if err := db.RunMigrations(cfg.MySQLDSN()); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN(), log)
	if err != nil {
		log.Fatal("mysql connection failed", zap.Error(err))
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatal("redis connection failed", zap.Error(err))
	}

	expenses := mysql.NewExpenseRepository(gdb)
	budgets := mysql.NewBudgetRepository(gdb)
	users := mysql.NewUserRepository(gdb)
	notifications := mysql.NewNotificationRepository(gdb)
	activities := mysql.NewActivityRepository(gdb)
	unit := mysql.NewGormUoW(gdb)

	bus := event.NewBus(log)
	bus.Subscribe(notifier.New(notifications, users, log))
	bus.Subscribe(audit.NewRecorder(activities))
	if cfg.AMQPURL != "" {
		pub, err := mq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, "expense", log)
		if err != nil {
			log.Fatal("rabbitmq connection failed", zap.Error(err))
		}
		defer pub.Close()
		bus.Subscribe(pub)
	}

	uc := expense.NewUsecase(expenses, budgets, unit, bus, log,
		expense.Policy{EnforceAtApproval: cfg.BudgetEnforceAtApproval})

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger(), echomw.Recover())
	e.Validator = httpadp.NewValidator()

	h := httpadp.NewHandler(cfg.Env)
	eh := httpadp.NewExpenseHandler(uc, pdf.NewFPDFRenderer(), cfg.UploadDir, log)
	httpadp.RegisterRoutes(e, h, eh,
		middleware.Identity(),
		middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, log),
	)

	addr := ":" + cfg.AppPort
	log.Info("listening", zap.String("addr", addr))
	if err := e.Start(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
