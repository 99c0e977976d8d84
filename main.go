package main

import (
	"context"
	"lichbot/app/client/telegram"
	"lichbot/app/config"
	"lichbot/app/service/convstate"
	"lichbot/app/service/dialog"
	"lichbot/app/service/engine"
	"lichbot/app/service/extract"
	"lichbot/app/service/inference"
	"lichbot/app/service/parse"
	"lichbot/app/service/queue"
	"lichbot/app/service/reminder"
	"lichbot/app/service/storage"
	"lichbot/app/service/transcribe"
	"lichbot/app/util/mylog"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, telegram.NewClient)
	do.Provide(di, storage.New)
	do.Provide(di, transcribe.New)
	do.Provide(di, parse.New)
	do.Provide(di, extract.New)
	do.Provide(di, inference.New)
	do.Provide(di, convstate.New)
	do.Provide(di, dialog.New)
	do.Provide(di, queue.New)
	do.Provide(di, reminder.New)
	do.Provide(di, engine.New)

	slog.Info("Service started")

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	go do.MustInvoke[*reminder.Service](di).Run(appCtx)

	go func() {
		if err := do.MustInvoke[*engine.Service](di).Run(appCtx); err != nil && appCtx.Err() == nil {
			slog.Error("Engine stopped", "error", err)
			cancel()
		}
	}()

	<-appCtx.Done()
}
