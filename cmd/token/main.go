// Command token issues a signed bearer token for calling the compute endpoints.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"hrcredit/internal/auth"
	"hrcredit/internal/platform/config"
)

func main() {
	cfg := config.Load()

	userID := flag.String("user", "", "user id placed in the token")
	role := flag.String("role", auth.RolePayroll, "role: admin, payroll or device")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	secret := flag.String("secret", cfg.JWTSecret, "signing secret, defaults to JWT_SECRET")
	flag.Parse()

	if *userID == "" || *secret == "" {
		fmt.Fprintln(os.Stderr, "usage: token -user <id> [-role payroll] [-ttl 24h] [-secret ...]")
		os.Exit(2)
	}
	if !auth.CanCompute(*role) {
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}

	token, err := auth.GenerateToken(*secret, auth.Claims{UserID: *userID, RoleName: *role}, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sign token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
