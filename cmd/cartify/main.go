// Command cartify はCartify APIサーバーを起動する。
//
// 使い方:
//
//	cartify [serve|migrate|healthcheck [--port N]]
package main

import (
	"fmt"
	"os"

	"github.com/snehasish51/cartify-backend/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
