package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/hiraku/frame-chat/internal/chat"
	"github.com/hiraku/frame-chat/internal/server"
)

func main() {
	addr := flag.String("addr", ":12345", "TCP address to listen on")
	wsAddr := flag.String("ws-addr", "", "optional address for the WebSocket and metrics endpoint (disabled if empty)")
	roomName := flag.String("room", "10001", "name of the chat room")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	room := chat.NewRoom(*roomName, logger)
	srv := server.New(*addr, *wsAddr, room, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	case sig := <-sigChan:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		srv.Stop()
	}

	logger.Info("server stopped")
}
