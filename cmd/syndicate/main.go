package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/shestoi/rivalsyndicate/internal/app"
	"github.com/shestoi/rivalsyndicate/internal/config"
)

func main() {
	var envFile string
	var registerCommands bool

	flags := pflag.NewFlagSet("syndicate", pflag.ContinueOnError)
	flags.StringVar(&envFile, "env-file", ".env", "файл с переменными окружения (необязателен)")
	flags.BoolVar(&registerCommands, "register-commands", false, "зарегистрировать slash-команды в гильдии и выйти")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalf("Failed to parse flags: %v", err)
	}

	// Переменные окружения процесса имеют приоритет над .env
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Failed to load %s: %v", envFile, err)
	}

	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Создаём и настраиваем приложение
	application, err := app.Build(cfg)
	if err != nil {
		log.Fatalf("Failed to build app: %v", err)
	}

	if registerCommands {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		names, err := application.RegisterCommands(ctx)
		if err != nil {
			log.Fatalf("Failed to register commands: %v", err)
		}
		fmt.Printf("Registered commands: %v\n", names)
		return
	}

	// Запускаем сервис
	if err := application.Run(context.Background()); err != nil {
		log.Fatalf("Service error: %v", err)
	}
}
