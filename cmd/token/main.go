// Command token mints an ID token for the local auth strategy, so the API
// can be exercised without a Firebase project.
package main

import (
	"flag" // Command line flags
	"fmt"  // Output
	"os"   // Exit codes
	"time" // Token lifetime

	"budgetin/internal/config"   // Custom import path (Config)
	"budgetin/internal/domain"   // Importing domain models
	"budgetin/internal/identity" // Local token issuer

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

func main() {
	sub := flag.String("sub", "", "subject id (required)")
	email := flag.String("email", "", "email address (required)")
	name := flag.String("name", "", "display name")
	picture := flag.String("picture", "", "photo URL")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if *sub == "" || *email == "" {
		flag.Usage()
		os.Exit(2)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	if cfg.LocalTokenSecret == "" {
		logrus.Fatal("LOCAL_TOKEN_SECRET is not set")
	}
	issuer := identity.NewLocal(cfg.LocalTokenSecret, cfg.LocalTokenIssuer)
	token, err := issuer.Issue(domain.Identity{Subject: *sub, Email: *email, Name: *name, PhotoURL: *picture}, *ttl)
	if err != nil {
		logrus.Fatalf("failed to sign token: %v", err)
	}
	fmt.Println(token)
}
