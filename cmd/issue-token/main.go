// Command issue-token mints a bearer token for local development.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/forgo/ideaboard/api/pkg/jwt"
)

func main() {
	privateKeyPath := flag.String("key", "./keys/private.pem", "Path to JWT private key")
	publicKeyPath := flag.String("pub", "./keys/public.pem", "Path to JWT public key (written by -generate)")
	generate := flag.Bool("generate", false, "Generate a new key pair before signing")
	userID := flag.String("user", "user:alice", "User record id for the token")
	name := flag.String("name", "Alice", "Display name for the token")
	issuer := flag.String("issuer", "ideaboard", "JWT issuer")
	expMins := flag.Int("mins", 60, "Token expiration in minutes")
	outputJSON := flag.Bool("json", false, "Output as JSON")

	flag.Parse()

	if table, key, ok := strings.Cut(*userID, ":"); !ok || table == "" || key == "" {
		fmt.Fprintf(os.Stderr, "User id must look like user:<key>, got %q\n", *userID)
		os.Exit(2)
	}

	if *generate {
		if err := jwt.GenerateKeyPair(*privateKeyPath, *publicKeyPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error generating keys: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s and %s\n", *privateKeyPath, *publicKeyPath)
	}

	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: *privateKeyPath,
		Issuer:         *issuer,
		ExpirationMins: *expMins,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating JWT service: %v\n", err)
		fmt.Fprintf(os.Stderr, "\nGenerate keys with: issue-token -generate\n")
		os.Exit(1)
	}

	token, err := jwtService.Sign(jwt.Claims{
		UserID: *userID,
		Name:   *name,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		os.Exit(1)
	}

	if *outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(map[string]any{
			"access_token": token,
			"token_type":   "Bearer",
			"expires_in":   *expMins * 60,
			"user_id":      *userID,
			"name":         *name,
		})
		return
	}

	expTime := time.Now().Add(jwtService.GetExpiration())
	fmt.Printf("User ID:  %s\n", *userID)
	fmt.Printf("Name:     %s\n", *name)
	fmt.Printf("Expires:  %s\n", expTime.Format(time.RFC3339))
	fmt.Println()
	fmt.Println(token)
}
