package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"

	"github.com/mvance/relaychat/internal/chat"
	"github.com/mvance/relaychat/pkg/wsserver"
)

func main() {
	_ = godotenv.Load()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)

	registry := chat.NewRegistry()
	colors := chat.NewRandomColorPicker(nil)

	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := wsserver.New(addr, registry, colors, config.SendBuffer, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := server.ListenAndServe(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatalf("server stopped with error: %v", err)
	}
}
