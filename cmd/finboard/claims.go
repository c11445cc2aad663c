package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"strings"

	"github.com/google/subcommands"

	"github.com/mmynk/finboard/internal/auth"
)

type claimsCmd struct {
	*app
	token   string
	now     string
	require string
}

func (*claimsCmd) Name() string     { return "claims" }
func (*claimsCmd) Synopsis() string { return "decode a session token and print its claims" }
func (*claimsCmd) Usage() string {
	return `finboard claims [-token <token>] [-now <time>] [-require <perm,...>] [<token>]

  Decodes the payload of a session token without checking its signature and
  prints the claims as JSON. The token is read from -token, the first
  argument, or stdin. With -require, exits non-zero unless the session is
  live and grants every listed permission.
`
}

func (c *claimsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.token, "token", "", "The token to decode.")
	f.StringVar(&c.now, "now", "", "Evaluate expiry at this time (RFC 3339 or YYYY-MM-DD, default now).")
	f.StringVar(&c.require, "require", "", "Comma separated permissions the session must grant.")
}

func (c *claimsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	credential := c.token
	if credential == "" && f.NArg() > 0 {
		credential = f.Arg(0)
	}
	if credential == "" {
		b, err := io.ReadAll(c.stdin)
		if err != nil {
			return c.errorf("Error reading token: %v", err)
		}
		credential = strings.TrimSpace(string(b))
	}

	now, err := parseNow(c.now)
	if err != nil {
		return c.errorf("Error: %v", err)
	}

	claims, err := auth.Decode(credential)
	if err != nil {
		return c.errorf("Error: %v", err)
	}

	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(claims); err != nil {
		return c.errorf("Error encoding claims: %v", err)
	}

	session := auth.ResolveSession(credential, now)
	if errors.Is(session.Err, auth.ErrExpiredCredential) {
		c.errorf("Warning: token expired at %s", claims.ExpiresAt.Time.Format("2006-01-02 15:04:05 MST"))
	}

	if perms := splitList(c.require); len(perms) > 0 && !session.Can(perms...) {
		return c.errorf("Session does not grant %s", strings.Join(perms, ", "))
	}
	return subcommands.ExitSuccess
}
