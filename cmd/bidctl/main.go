// Command bidctl — консольный дашборд вакансий: список ссылок с фильтрами,
// чёрный список, расписания поиска, аналитика и настройки.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "ошибка:", err)
		stop()
		os.Exit(1)
	}
}
