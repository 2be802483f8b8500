package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/svazquez/biblioteca-service/config"
	"github.com/svazquez/biblioteca-service/internal/handler"
	"github.com/svazquez/biblioteca-service/internal/repository"
	"github.com/svazquez/biblioteca-service/internal/server"
	"github.com/svazquez/biblioteca-service/internal/service"
	"github.com/svazquez/biblioteca-service/migrations"
	"github.com/svazquez/biblioteca-service/pkg/auth"
	"github.com/svazquez/biblioteca-service/pkg/logger"
	"github.com/svazquez/biblioteca-service/pkg/oauth"
	"github.com/svazquez/biblioteca-service/pkg/postgres"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "biblioteca")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}
	tokens := auth.NewManager(cfg.JWT)
	svc := service.NewService(repo, tokens, log)
	provider := oauth.NewGoogleProvider(cfg.OAuth, log)

	h := handler.New(svc, svc, provider, tokens, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))

	g, _ := errgroup.WithContext(context.Background())
	g.Go(func() error {
		return srv.Run()
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	if err := g.Wait(); err != nil {
		log.Debug("server stopped", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
