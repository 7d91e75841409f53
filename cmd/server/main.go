// @title Creative Renamer API
// @version 1.0
// @description Сопоставление файлов архива креативов с именами из T-sheet, переименование и сравнение архивов.

// @host localhost:8000
// @BasePath /
// @schemes http https

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"creativerenamer/internal/config"
	"creativerenamer/server"
)

func main() {
	log.Println("Запуск Creative Renamer Server...")

	// CONFIG_FILE или переменные окружения
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	server.InitLogger(cfg)
	srv := server.New(cfg)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Printf("Получен сигнал %v, останавливаем сервер...", sig)
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Ошибка запуска сервера: %v", err)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		server.LogWarn(ctx, "Shutdown finished with error", "error", err)
		os.Exit(1)
	}
	log.Println("Сервер остановлен")
}
