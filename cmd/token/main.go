// Command token signs a bearer token for the API, for operators and local
// testing. Accounts live outside this service; the subject is an opaque id.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"hotel_backoffice/internal/adapters/auth"
	"hotel_backoffice/internal/domain"
	"hotel_backoffice/internal/shared"
)

func main() {
	user := flag.Int64("user", 1, "user id placed in the subject claim")
	role := flag.String("role", string(domain.RoleStaff), "admin, staff or viewer")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	cfg := shared.Load()
	who := domain.Identity{UserID: *user, Role: domain.Role(*role)}
	if !who.Role.Valid() {
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}
	tok, err := auth.Issue(cfg.JWTSecret, who, *ttl, time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, "issue token:", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
