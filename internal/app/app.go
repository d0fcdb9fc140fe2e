package app

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
)

type Config struct {
	Port          string
	GeneratorUrl  string
	DBApiKey      string
	DBUrlBase     string
	HistoryPath   string
	LocalFallback bool
}

type App struct {
	Session   *Session
	Lifecycle Lifecycle
	Versions  VersionRepo
	Config    Config
}

func (a App) Start() {

	http.Handle("/api/generator/generate", Controller(a.generate))
	http.Handle("/api/generator/enhance", Controller(a.enhance))
	http.Handle("/api/generator/content", Controller(a.content))
	http.Handle("/api/generator/reset", Controller(a.reset))
	http.Handle("/api/generator/restore", Controller(a.restore))
	http.Handle("/api/generator/session", Controller(a.session))
	http.Handle("/api/versions", Controller(a.versions))
	http.Handle("/api/versions/favorite", Controller(a.favorite))
	http.Handle("/api/lifecycle/board", Controller(a.board))
	http.Handle("/api/lifecycle/draft", Controller(a.saveDraft))
	http.Handle("/api/lifecycle/transition", Controller(a.transition))
	http.Handle("/api/lifecycle/test-result", Controller(a.testResult))

	slog.Info(fmt.Sprintf("App running on %s...", a.Config.Port))
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%s", a.Config.Port), nil))
}
