package app

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

type AppResp struct {
	Error   error
	Message string
	Code    int
	Body    any
}

type Controller func(http.ResponseWriter, *http.Request) *AppResp

func (fn Controller) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := fn(w, r)

	if resp.Error != nil {
		slog.Error(fmt.Sprintf(`Error occured: %s`, resp.Error.Error()))
	}

	if resp.Code >= 400 {
		http.Error(w, resp.Message, resp.Code)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	if resp.Code != 0 {
		w.WriteHeader(resp.Code)
	}

	if resp.Body == nil {
		return
	}

	err := json.NewEncoder(w).Encode(resp.Body)

	if err != nil {
		slog.Error(fmt.Sprintf(`Error occured: %s`, err.Error()))
	}
}
