// Command carl runs the resource manager service: it loads configuration,
// selects a storage backend, and serves the health check over grpc until
// interrupted.
package main

import (
	"context"
	"errors"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/viper"

	carlgrpc "github.com/opendut/carl/internal/adapters/grpc"
	"github.com/opendut/carl/internal/bootstrap"
	"github.com/opendut/carl/pkg/mlog"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	logger, err := mlog.NewZap()
	if err != nil {
		return err
	}

	v := bootstrap.NewViper()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	opts := bootstrap.LoadOptions(v)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service, err := bootstrap.NewService(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := service.Close(context.Background()); cerr != nil {
			logger.Error("closing resource manager", "error", cerr)
		}
	}()

	addr := os.Getenv("CARL_LISTEN_ADDRESS")
	if addr == "" {
		addr = ":8080"
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	server := carlgrpc.NewServer(service.Manager, logger)
	logger.Info("carl listening", "address", addr)
	return server.Serve(ctx, lis)
}
