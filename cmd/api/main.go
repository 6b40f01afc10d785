package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/wiltonsf/cadastro-obras/internal/admin"
	"github.com/wiltonsf/cadastro-obras/internal/broker"
	"github.com/wiltonsf/cadastro-obras/internal/config"
	"github.com/wiltonsf/cadastro-obras/internal/db"
	"github.com/wiltonsf/cadastro-obras/internal/handlers"
	"github.com/wiltonsf/cadastro-obras/internal/repository"
)

// cmd/api/main.go
func main() {
	cfg, err := config.Load() // .env
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// Logger JSON "global" - permite usar slog.Info/slog.Error/Warn em qualquer lugar
	_ = config.InitLogger(cfg.LogLevel)
	slog.Info("starting", "port", cfg.Port, "mongo_db", cfg.MongoDB)

	// HOOK: admin job (one-off)
	task := flag.String("task", "", "admin task: seed")
	flag.Parse()
	if *task != "" {
		switch *task {
		case "seed":
			// conecta somente o necessário para o seed
			client, err := db.NewMongoClient(cfg.MongoURI)
			if err != nil {
				slog.Error("mongo_connect_error", "err", err)
				os.Exit(1)
			}
			defer func() { _ = client.Disconnect(context.Background()) }()

			repo := repository.NewEmpresaRepository(client.Database(cfg.MongoDB))
			if err := repo.EnsureIndexes(context.Background()); err != nil {
				slog.Error("ensure_indexes_error", "err", err)
				os.Exit(1)
			}
			if err := admin.SeedEmpresas(context.Background(), repo, slog.Default()); err != nil {
				slog.Error("seed_failed", "err", err)
				os.Exit(1)
			}
			slog.Info("seed_done")
			return // encerra o processo sem subir HTTP
		default:
			slog.Error("unknown_admin_task", "task", *task)
			os.Exit(2)
		}
	}

	// conecta Mongo
	client, err := db.NewMongoClient(cfg.MongoURI)
	if err != nil {
		log.Fatalf("mongo connect error: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	database := client.Database(cfg.MongoDB)
	empresaRepo := repository.NewEmpresaRepository(database)
	obraRepo := repository.NewObraRepository(database)

	// índice único é a garantia autoritativa de unicidade
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := empresaRepo.EnsureIndexes(ctx); err != nil {
		cancel()
		log.Fatalf("ensure empresa indexes: %v", err)
	}
	if err := obraRepo.EnsureIndexes(ctx); err != nil {
		cancel()
		log.Fatalf("ensure obra indexes: %v", err)
	}
	cancel()

	// publisher (Rabbit)
	pub, err := broker.NewPublisher(cfg.RabbitURI, cfg.RabbitQueue)
	if err != nil {
		log.Fatalf("rabbitmq connect error: %v", err)
	}
	defer pub.Close()

	eh := handlers.NewEmpresaHandler(empresaRepo, pub)
	oh := handlers.NewObraHandler(obraRepo, empresaRepo, pub)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", eh.Health)
	mux.HandleFunc("/empresas", eh.Empresas)
	mux.HandleFunc("/empresas/", func(w http.ResponseWriter, r *http.Request) {
		// /empresas/{id}/obras fica com o handler de obras
		parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
		if len(parts) == 3 && parts[2] == "obras" {
			oh.EmpresaObras(w, r)
			return
		}
		eh.EmpresaByID(w, r)
	})
	mux.HandleFunc("/obras/", oh.ObraByID)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           logMiddleware(mux),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	// start server
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	sctx, scancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer scancel()
	if err := srv.Shutdown(sctx); err != nil {
		slog.Error("graceful shutdown error", "err", err)
	}
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("http_request",
			"method", r.Method, "path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
