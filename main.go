package main

import (
	"log/slog"

	"github.com/purpose168/forge-cn/internal/cmd"
	"github.com/purpose168/forge-cn/internal/log"
)

func main() {
	defer log.RecoverPanic("main", func() {
		slog.Error("应用程序因恐慌而终止")
	})
	cmd.Execute()
}
