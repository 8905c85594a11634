// Command hash-secret reads an admin secret from stdin and prints the
// Argon2id hash to put in ACG_ADMIN_BOOTSTRAP_SECRET.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"autocare-x402-gateway/internal/service"
)

func main() {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintf(os.Stderr, "read secret: %v\n", err)
		os.Exit(1)
	}
	secret := strings.TrimRight(line, "\r\n")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "empty secret")
		os.Exit(1)
	}

	hash, err := service.HashSecret(secret)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hash secret: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
