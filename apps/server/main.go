package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"spinroom/apps/server/internal/auth"
	"spinroom/apps/server/internal/gateway"
	"spinroom/apps/server/internal/ledger"
	"spinroom/apps/server/internal/lobby"
)

func main() {
	// Local overrides; missing .env is fine.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[Server] Skipping .env: %v", err)
	}

	authService, authMode, err := auth.NewServiceFromEnv()
	if err != nil {
		log.Fatalf("[Server] Failed to init auth manager: %v", err)
	}
	defer authService.Close()
	ledgerService, ledgerMode, err := ledger.NewServiceFromEnv(authMode)
	if err != nil {
		log.Fatalf("[Server] Failed to init ledger service: %v", err)
	}
	defer ledgerService.Close()

	lby := lobby.New(ledgerService)
	defer lby.Close()
	gw := gateway.New(lby, authService)
	authHTTP := auth.NewHTTPHandler(authService)
	historyHTTP := ledger.NewHTTPHandler(authService, ledgerService)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	gw.RegisterRoutes(mux)
	authHTTP.RegisterRoutes(mux)
	historyHTTP.RegisterRoutes(mux)

	addr := strings.TrimSpace(os.Getenv("SPINROOM_ADDR"))
	if addr == "" {
		addr = ":8080"
	}
	log.Printf("[Server] Auth mode: %s", authMode)
	log.Printf("[Server] Ledger mode: %s", ledgerMode)
	log.Printf("[Server] Starting WebSocket server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("[Server] Failed to start: %v", err)
	}
}
