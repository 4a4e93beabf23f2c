package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"net/http"
	_ "net/http/pprof"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Popolzen/ossconvert/internal/audit"
	"github.com/Popolzen/ossconvert/internal/config"
	"github.com/Popolzen/ossconvert/internal/converter"
	"github.com/Popolzen/ossconvert/internal/fetcher"
	"github.com/Popolzen/ossconvert/internal/handler"
	"github.com/Popolzen/ossconvert/internal/logger"
	"github.com/Popolzen/ossconvert/internal/metrics"
	"github.com/Popolzen/ossconvert/internal/middleware/auth"
	"github.com/Popolzen/ossconvert/internal/middleware/compressor"
	"github.com/Popolzen/ossconvert/internal/service/convert"
	"github.com/Popolzen/ossconvert/internal/storage/s3"
	"github.com/Popolzen/ossconvert/internal/taskstore"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	// Инициализируем логгер
	if err := logger.Init(); err != nil {
		log.Fatal("Не удалось инициализировать логгер:", err)
	}
	defer logger.Close()

	// .env для локального запуска; в проде переменные приходят из окружения
	godotenv.Load()

	gin.SetMode(gin.ReleaseMode)
	cfg := config.NewConfig()

	// Запускаем pprof сервер на настраиваемом порту
	if cfg.PprofAddr != "" {
		go func() {
			log.Printf("pprof сервер запущен на http://%s/debug/pprof/", cfg.PprofAddr)
			if err := http.ListenAndServe(cfg.PprofAddr, nil); err != nil {
				log.Printf("Ошибка запуска pprof сервера: %v", err)
			}
		}()
	}

	// Инициализируем паблишера
	publisher := initAudit(cfg)

	// Клиент объектного хранилища
	storageClient, err := s3.NewClient(cfg)
	if err != nil {
		log.Fatal("Не удалось подключиться к хранилищу:", err)
	}

	// Собираем конвейер конвертации
	tasks := taskstore.New()
	f := fetcher.New(time.Duration(cfg.FetchTimeout)*time.Second, cfg.MaxUploadSize)
	conv := converter.New(f, storageClient, cfg.Concurrency)
	svc := convert.NewService(conv, tasks, storageClient, publisher)

	// Настраиваем роутер
	r := setupRouter(svc, storageClient, cfg)

	// Graceful Shutdown
	setupGracefulShutdown(publisher)

	// Запускаем сервер
	addr := cfg.GetAddress()
	log.Printf("OSS converter запущен на http://%s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal("Не удалось запустить сервер:", err)
	}
}

func printBuildInfo() {
	version := "N/A"
	date := "N/A"
	commit := "N/A"

	if buildVersion != "" {
		version = buildVersion
	}
	if buildDate != "" {
		date = buildDate
	}
	if buildCommit != "" {
		commit = buildCommit
	}

	fmt.Printf("Build version: %s\n", version)
	fmt.Printf("Build date: %s\n", date)
	fmt.Printf("Build commit: %s\n", commit)
}

// GracefulShutdown
func setupGracefulShutdown(publisher *audit.Publisher) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("Получен сигнал остановки, завершаем работу...")
		if err := publisher.Close(); err != nil {
			log.Printf("Ошибка закрытия publisher: %v", err)
		}
		logger.Close()
		log.Println("Сервис остановлен gracefully")
		os.Exit(0)
	}()
}

// initAudit - функция инициализации аудита:
func initAudit(cfg *config.Config) *audit.Publisher {
	publisher := audit.NewPublisher()

	// Файловый observer
	if cfg.GetAuditFile() != "" {
		fileObs, err := audit.NewFileObserver(cfg.GetAuditFile())
		if err != nil {
			log.Printf("Не удалось создать file observer: %v", err)
		} else {
			publisher.Subscribe(fileObs)
			log.Printf("Аудит в файл: %s", cfg.GetAuditFile())
		}
	}

	// HTTP observer
	if cfg.GetAuditURL() != "" {
		httpObs := audit.NewHTTPObserver(cfg.GetAuditURL())
		publisher.Subscribe(httpObs)
		log.Printf("Аудит на сервер: %s", cfg.GetAuditURL())
	}

	return publisher
}

// setupRouter настраивает роуты и middleware
func setupRouter(svc *convert.Service, storageClient *s3.Client, cfg *config.Config) *gin.Engine {
	r := gin.Default()
	r.Use(logger.RequestLogger())
	r.Use(metrics.RequestMiddleware())
	r.Use(compressor.Compresser())

	r.POST("/login", auth.LoginHandler(cfg))
	r.GET("/logout", auth.LogoutHandler())
	r.GET("/ping", handler.PingHandler(storageClient))
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/", auth.SessionMiddleware(cfg))
	api.POST("/convert_url", handler.ConvertURLHandler(svc))
	api.GET("/progress/:task_id", handler.ProgressHandler(svc))
	api.POST("/upload_file", handler.UploadFileHandler(svc, cfg))

	return r
}
