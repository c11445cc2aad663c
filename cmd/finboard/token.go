package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/mmynk/finboard/internal/auth"
)

type tokenCmd struct {
	*app
	subject  string
	email    string
	name     string
	role     string
	perms    string
	audience string
	issuer   string
	ttl      time.Duration
}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "mint a signed session token" }
func (*tokenCmd) Usage() string {
	return `finboard token -sub <id> [-email <email>] [-name <name>] [-role <role>] [-perms <perm,...>] [-ttl <duration>]

  Signs a session token with JWT_SECRET, prompting for the secret when the
  variable is unset. Grant "transactions:read" to see charts and records and
  "transactions:write" to create records.
`
}

func (c *tokenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.subject, "sub", "", "Subject (user id) of the token. Required.")
	f.StringVar(&c.email, "email", "", "Email claim.")
	f.StringVar(&c.name, "name", "", "Display name claim.")
	f.StringVar(&c.role, "role", "", "Role claim.")
	f.StringVar(&c.perms, "perms", auth.PermTransactionsRead, "Comma separated permissions to grant.")
	f.StringVar(&c.audience, "aud", "", "Comma separated audiences.")
	f.StringVar(&c.issuer, "issuer", c.cfg.JWTIssuer, "Issuer claim (env JWT_ISSUER).")
	f.DurationVar(&c.ttl, "ttl", c.cfg.JWTDuration, "Token lifetime (env JWT_DURATION).")
}

func (c *tokenCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.subject == "" {
		return c.errorf("Error: -sub is required")
	}
	if c.ttl <= 0 {
		return c.errorf("Error: -ttl must be positive")
	}

	secret := c.cfg.JWTSecret
	if secret == "" {
		fmt.Fprint(c.stderr, "JWT secret: ")
		var err error
		secret, err = readSecret(c.stdin)
		fmt.Fprintln(c.stderr)
		if err != nil {
			return c.errorf("Error reading secret: %v", err)
		}
	}
	secret = strings.TrimSpace(secret)
	if len(secret) < 16 {
		return c.errorf("Error: secret must be at least 16 characters")
	}

	token, err := auth.NewJWTManager(secret, c.issuer, c.ttl).Generate(auth.Identity{
		Subject:     c.subject,
		Email:       c.email,
		Name:        c.name,
		Role:        c.role,
		Permissions: splitList(c.perms),
		Audience:    splitList(c.audience),
	})
	if err != nil {
		return c.errorf("Error: %v", err)
	}

	fmt.Fprintln(c.stdout, token)
	return subcommands.ExitSuccess
}
