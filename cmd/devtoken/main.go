// Command devtoken prints a signed bearer token for local testing.
//
//	go run ./cmd/devtoken -user 42 -role ADMIN
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/wichananm65/shop-backend/internal/domain/entity"
	"github.com/wichananm65/shop-backend/internal/infrastructure/config"
	"github.com/wichananm65/shop-backend/internal/interface/http/handler"
)

func main() {
	cfg := config.Load()

	userID := flag.Int64("user", 1, "user id claim")
	role := flag.String("role", string(entity.RoleUser), "USER or ADMIN")
	ttl := flag.Duration("ttl", 72*time.Hour, "token lifetime")
	flag.Parse()

	if *userID <= 0 {
		fmt.Fprintln(os.Stderr, "devtoken: -user must be positive")
		os.Exit(2)
	}

	signed, err := sign(cfg.JWTSecret, *userID, entity.ParseRole(*role), *ttl, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "devtoken: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(signed)
}

func sign(secret string, userID int64, role entity.Role, ttl time.Duration, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		handler.ClaimUserID: userID,
		handler.ClaimRole:   string(role),
		"exp":               now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
