// Command myspendr_token prints a bearer token for local use against the API.
// It signs with JWT_SECRET and JWT_ISSUER exactly like the server verifies.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/myspendr/internal/platform/config"
	"github.com/SscSPs/myspendr/internal/utils"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	userID := flag.String("user", "", "user ID to put in the subject claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	token, err := utils.IssueAccessToken(*userID, cfg.JWTSecret, cfg.JWTIssuer, *ttl, time.Now())
	if err != nil {
		logger.Error("Failed to issue token", slog.String("error", err.Error()))
		os.Exit(2)
	}
	fmt.Println(token)
}
