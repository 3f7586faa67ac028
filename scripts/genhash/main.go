// One-off: go run ./scripts/genhash <password> [cost]
package main

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	password := "admin"
	cost := bcrypt.DefaultCost
	if len(os.Args) > 1 {
		password = os.Args[1]
	}
	if len(os.Args) > 2 {
		c, err := strconv.Atoi(os.Args[2])
		if err != nil {
			panic(err)
		}
		cost = c
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		panic(err)
	}
	fmt.Print(string(h))
}
