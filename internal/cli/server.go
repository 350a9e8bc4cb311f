package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/guimilreu/quizz/internal/app"
	"github.com/guimilreu/quizz/internal/config"
	"github.com/guimilreu/quizz/internal/infra/memory"
	redisstore "github.com/guimilreu/quizz/internal/infra/redis"
	transport "github.com/guimilreu/quizz/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz room server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}
	publicURL := cfg.Server.PublicURL
	if publicURL == "" {
		publicURL = "http://localhost:" + finalPort
	}

	var rooms app.RoomRepository = memory.NewRoomStore(cfg.Game.MaxRooms)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rooms = redisstore.NewRoomStore(client, config.Duration(cfg.Redis.TTL, 2*time.Hour), cfg.Game.MaxRooms)
	}

	registry := memory.NewConnectionRegistry()
	hub := transport.NewHub()
	service := app.NewGameService(rooms, registry, hub, app.TimerScheduler{}, app.Config{
		QuestionTime: config.Duration(cfg.Game.QuestionTime, 60*time.Second),
		Retention:    config.Duration(cfg.Game.Retention, time.Minute),
		MaxPlayers:   cfg.Game.MaxPlayers,
	})
	wsHandler := transport.NewWSHandler(service, hub)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.HandleFunc("/qr", transport.QRHandler(rooms, publicURL))

	server := &http.Server{
		Addr:              ":" + finalPort,
		Handler:           mux,
		ReadHeaderTimeout: 15 * time.Second,
	}

	stopCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(stopCtx)
	g.Go(func() error {
		log.Printf("starting quiz server on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
