package utils

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

const shutdownTimeout = 15 * time.Second

// ShutdownManager собирает задачи освобождения ресурсов (Mongo, Redis,
// HTTP-сервер) и прогоняет их по порядку при SIGINT/SIGTERM
type ShutdownManager struct {
	cancel context.CancelFunc
	tasks  []func(context.Context) error
	mu     sync.Mutex
}

// NewShutdownManager возвращает производный контекст, который отменяется
// при получении сигнала завершения
func NewShutdownManager(ctx context.Context) (context.Context, *ShutdownManager) {
	ctx, cancel := context.WithCancel(ctx)
	return ctx, &ShutdownManager{cancel: cancel}
}

// Register добавляет задачу; порядок выполнения — порядок регистрации
func (sm *ShutdownManager) Register(task func(context.Context) error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.tasks = append(sm.tasks, task)
}

// StartListening ждёт сигнал в фоне; после выполнения всех задач процесс
// завершается сам
func (sm *ShutdownManager) StartListening() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("[SHUTDOWN] Received signal: %v", sig)
		sm.cancel()

		ctx, cancelTimeout := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelTimeout()

		sm.mu.Lock()
		defer sm.mu.Unlock()
		for _, task := range sm.tasks {
			if err := task(ctx); err != nil {
				log.Printf("[SHUTDOWN] Error during shutdown: %v", err)
			}
		}

		log.Println("[SHUTDOWN] Graceful shutdown complete")
		os.Exit(0)
	}()
}
