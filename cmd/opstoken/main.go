// Command opstoken mints an operator or viewer token for the maintenance API.
//
//	opstoken -subject alice@travelwits -role operator -ttl 8h
//
// The signing key, issuer and audience come from the same environment (and
// .env file) as the API server, so the token validates against it.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/travelwits/travelwits/internal/auth"
	"github.com/travelwits/travelwits/internal/config"
)

func main() {
	subject := flag.String("subject", "", "token subject, usually the operator's email (required)")
	role := flag.String("role", auth.RoleOperator, "role claim: operator or viewer")
	ttl := flag.Duration("ttl", auth.DefaultTokenExpiry, "token lifetime, capped at 30 days")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	if *subject == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.JWTSigningKey == "" {
		log.Warn().Msg("signing with the development key; the token is only valid against local servers")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: cfg.SigningKey(),
		Issuer:     cfg.JWTIssuer,
		Audience:   cfg.JWTAudience,
	})

	token, expiresAt, err := jwtService.GenerateToken(*subject, *role, *ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to mint token")
	}

	log.Info().
		Str("subject", *subject).
		Str("role", *role).
		Time("expires_at", expiresAt).
		Msg("token minted")
	fmt.Println(token)
}
