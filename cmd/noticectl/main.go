package main

import (
	"context"
	"fmt"
	"os"

	"github.com/noah-isme/campus-notice-api/internal/cmd/noticectl"
)

func main() {
	if err := noticectl.RootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "noticectl:", err)
		os.Exit(1)
	}
}
