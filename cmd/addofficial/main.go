// cmd/addofficial/main.go
// Mints a long-lived bearer token for an SAI official or an analysis worker.
// Athlete tokens come from the identity provider; these two roles are
// provisioned by operators instead.
//
// Usage:
//
//	go run ./cmd/addofficial -subject official-42 -email ro@sai.gov.in
//	go run ./cmd/addofficial -subject worker-1 -role analysis_worker
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/saitalent/sporty/config"
	"github.com/saitalent/sporty/middleware"
)

func main() {
	subject := flag.String("subject", "", "stable subject id (required)")
	email := flag.String("email", "", "contact email")
	role := flag.String("role", middleware.RoleOfficial, "token role")
	flag.Parse()

	if *subject == "" {
		log.Fatal("-subject is required")
	}
	switch *role {
	case middleware.RoleOfficial, middleware.RoleWorker:
	default:
		log.Fatalf("role must be %q or %q", middleware.RoleOfficial, middleware.RoleWorker)
	}

	cfg := config.Load()
	token, err := middleware.MintToken(cfg.JWTKey(), middleware.Identity{
		SubjectID: *subject,
		Email:     *email,
		Role:      *role,
	})
	if err != nil {
		log.Fatal("mint token:", err)
	}

	fmt.Println(token)
}
