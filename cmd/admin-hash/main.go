// Command admin-hash prints the bcrypt hash of a password for
// ADMIN_PASSWORD_HASH.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/om-adella-promo/internal/utils"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: admin-hash [-cost N] <password>")
		os.Exit(2)
	}

	hash, err := utils.HashPassword(flag.Arg(0), *cost)
	if err != nil {
		log.Fatalf("admin-hash: %v", err)
	}
	fmt.Println(hash)
}
