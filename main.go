package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "go.uber.org/automaxprocs"
	"golang.org/x/time/rate"

	"github.com/promptnx/pipeline/internal/app"
	"github.com/promptnx/pipeline/internal/persistence"
)

func config() app.Config {
	port := os.Getenv("GOPORT")
	if port == "" {
		port = "8787"
	}

	generatorUrl := os.Getenv("GENERATOR_URL")
	if generatorUrl == "" {
		generatorUrl = "http://localhost:8000/api/prompt-generator"
	}

	dbApiKey := os.Getenv("DB_API_KEY")
	if dbApiKey == "" {
		slog.Error("DB_API_KEY environment variable not set")
	}

	dbUrlBase := os.Getenv("DB_URL_BASE")
	if dbUrlBase == "" {
		slog.Error("DB_URL_BASE environment variable not set")
	}

	historyPath := os.Getenv("HISTORY_DB")
	if historyPath == "" {
		historyPath = "prompt-versions.db"
	}

	localFallback := os.Getenv("DISABLE_LOCAL_FALLBACK") != "true"

	return app.Config{
		Port:          port,
		GeneratorUrl:  generatorUrl,
		DBApiKey:      dbApiKey,
		DBUrlBase:     dbUrlBase,
		HistoryPath:   historyPath,
		LocalFallback: localFallback,
	}
}

func main() {
	config := config()

	versionRepo, err := persistence.NewVersionRepo(config.HistoryPath)
	if err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		os.Exit(1)
	}
	defer versionRepo.Close()

	dbHeaders := []string{
		fmt.Sprintf("apikey: %s", config.DBApiKey),
		fmt.Sprintf("Authorization: Bearer %s", config.DBApiKey)}

	artifactRepo := persistence.ArtifactRepo{
		BaseHeaders: dbHeaders,
		BaseUrl:     fmt.Sprintf("%s/prompt_artifact", config.DBUrlBase),
		Client:      &http.Client{Timeout: 30 * time.Second},
	}

	generatorRepo := persistence.GeneratorRepo{
		BaseUrl:       config.GeneratorUrl,
		Client:        &http.Client{Timeout: 60 * time.Second},
		Limiter:       rate.NewLimiter(rate.Every(2*time.Second), 3),
		LocalFallback: config.LocalFallback,
	}

	a := app.App{
		Session:   app.NewSession(generatorRepo, versionRepo),
		Lifecycle: app.Lifecycle{Artifacts: artifactRepo},
		Versions:  versionRepo,
		Config:    config,
	}

	a.Start()
}
