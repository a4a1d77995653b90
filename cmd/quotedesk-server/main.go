package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"

	"github.com/quotedesk/internal/config"
	"github.com/quotedesk/internal/database"
	"github.com/quotedesk/internal/extract"
	"github.com/quotedesk/internal/jobs"
	"github.com/quotedesk/internal/logger"
	"github.com/quotedesk/internal/queue"
	"github.com/quotedesk/internal/server"
	"github.com/quotedesk/internal/worker"
)

var (
	httpPort    = flag.Int("http-port", 8080, "HTTP server port")
	dbPath      = flag.String("db-path", "./quotedesk.db", "SQLite database path")
	uploadDir   = flag.String("upload-dir", "./uploads", "Directory for staged uploads")
	templateDir = flag.String("template-dir", "./frontend/template", "Template directory")
	logFile     = flag.String("log-file", "./quotedesk.log", "Log file path")
	workerCount = flag.Int("worker-count", 4, "Number of background extraction workers")
)

func main() {
	flag.Parse()

	// .env is optional; flags and environment take over when absent.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env: %v\n", err)
	}

	if _, err := logger.Init(*logFile); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	db, err := sql.Open("sqlite3", *dbPath)
	if err != nil {
		logger.Fatalf("failed to open sqlite database: %v", err)
	}
	defer db.Close()

	extractionStore, err := database.NewExtractionStore(db)
	if err != nil {
		logger.Fatalf("failed to initialize extraction store: %v", err)
	}
	auditStore, err := database.NewAuditLogStore(db)
	if err != nil {
		logger.Fatalf("failed to initialize audit store: %v", err)
	}

	engine := extract.NewEngine(*workerCount)
	wsManager := server.NewWebSocketManager()
	defer wsManager.Stop()

	// Redis is optional: without it the async ingest endpoint reports
	// unavailable and everything else still works.
	ctx := context.Background()
	var jobQueue queue.Queue
	var workerCancel context.CancelFunc
	redisClient, err := config.NewRedisClient(ctx)
	if err != nil {
		logger.Warnf("failed to connect to Redis: %v, async ingestion will not be available", err)
	} else {
		queueKey := os.Getenv("JOB_QUEUE_KEY")
		jobQueue, err = queue.NewRedisQueue(redisClient, queueKey)
		if err != nil {
			logger.Fatalf("failed to create job queue: %v", err)
		}

		processor := jobs.NewExtractProcessor(extractionStore, engine, wsManager)
		handler := func(ctx context.Context, job queue.Job) error {
			switch job.Type {
			case jobs.JobTypeExtractDocument:
				return processor.Handle(ctx, job)
			default:
				logger.Warnf("unknown job type: %s", job.Type)
				return nil
			}
		}

		workerCtx, cancel := context.WithCancel(ctx)
		workerCancel = cancel
		go func() {
			logger.Printf("Starting %d background workers", *workerCount)
			if err := worker.StartWorkers(workerCtx, jobQueue, handler, *workerCount); err != nil {
				logger.Errorf("worker error: %v", err)
			}
		}()
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", *httpPort),
		Handler: routes(engine, extractionStore, auditStore, jobQueue, wsManager, *uploadDir, *templateDir),
	}

	go func() {
		logger.Printf("HTTP server listening on %d", *httpPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("HTTP server error: %v", err)
		}
	}()

	waitForShutdown(httpServer, workerCancel)
}

func routes(engine *extract.Engine, extractionStore *database.ExtractionStore, auditStore *database.AuditLogStore, jobQueue queue.Queue, wsManager *server.WebSocketManager, uploadDir, templateDir string) http.Handler {
	mux := http.NewServeMux()

	uploadHandler := server.NewUploadHandler(engine, auditStore, wsManager, uploadDir)
	searchHandler := server.NewSearchHandler(auditStore)
	exportHandler := server.NewExportHandler(auditStore)
	asyncHandler := server.NewAsyncIngestHandler(extractionStore, jobQueue, auditStore, uploadDir)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(templateDir, "index.html"))
	})

	mux.HandleFunc("/upload", uploadHandler.HandleUpload)
	mux.HandleFunc("/search", searchHandler.HandleSearch)
	mux.HandleFunc("/api/v1/export", exportHandler.HandleExport)
	mux.HandleFunc("/api/v1/ingest/async", asyncHandler.HandleIngestAsync)
	mux.HandleFunc("/api/v1/jobs/", asyncHandler.HandleJobStatus)
	mux.HandleFunc("/api/v1/health", server.HandleHealth)
	mux.HandleFunc("/api/v1/logs/stream", server.HandleLogStream)
	mux.HandleFunc("/api/v1/ws", wsManager.HandleWebSocket)
	mux.HandleFunc("/api/v1/audit", func(w http.ResponseWriter, r *http.Request) {
		server.HandleAuditLogs(w, r, auditStore)
	})

	return mux
}

func waitForShutdown(httpServer *http.Server, workerCancel context.CancelFunc) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Printf("Shutting down server...")

	if workerCancel != nil {
		workerCancel()
	}

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Errorf("HTTP shutdown error: %v", err)
	}
}
