// Command token mints a bearer token for local testing and operator access.
//
//	token -role agent -id 6f1c...
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/segyhp/vehicle-loan-engine/internal/config"
	"github.com/segyhp/vehicle-loan-engine/internal/domain"
	"github.com/segyhp/vehicle-loan-engine/internal/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	role := flag.String("role", string(domain.RoleAdmin), "admin, agent or customer")
	id := flag.String("id", "", "agent or customer id")
	subject := flag.String("sub", "", "token subject, defaults to the role")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	p := domain.Principal{Role: domain.Role(*role), Subject: *subject}
	if p.Subject == "" {
		p.Subject = *role
	}
	if *id != "" {
		if p.ID, err = uuid.Parse(*id); err != nil {
			logrus.WithError(err).Fatal("Invalid id")
		}
	}

	token, err := middleware.NewAuthenticator(cfg.Auth).IssueToken(p)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to issue token")
	}
	fmt.Fprintln(os.Stdout, token)
}
