package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/nairex/nairex-api/internal/logging"
)

// Local stand-in for the CoinGecko simple/price endpoint so the API can
// run end to end without hitting the real upstream. Point
// PRICE_SOURCE_URL at http://localhost:8081 to use it.
var prices = map[string]map[string]json.Number{
	"bitcoin":  {"ngn": "85000000"},
	"ethereum": {"ngn": "4800000"},
	"tether":   {"ngn": "1550"},
}

func main() {
	logging.Init("mock-rates", "info", os.Getenv("APP_ENV"))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
			slog.Error("failed to write health response", "error", err)
		}
	})

	mux.HandleFunc("GET /simple/price", func(w http.ResponseWriter, r *http.Request) {
		ids := strings.Split(r.URL.Query().Get("ids"), ",")
		resp := make(map[string]map[string]json.Number, len(ids))
		for _, id := range ids {
			if quote, ok := prices[id]; ok {
				resp[id] = quote
			}
		}

		slog.Info("serving quotes", "ids", ids)
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Error("failed to write price response", "error", err)
		}
	})

	slog.Info("mock rates server started", "addr", ":8081")
	if err := http.ListenAndServe(":8081", mux); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
