package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/crucial707/blogfeed/cmd/cli/auth"
	"github.com/crucial707/blogfeed/cmd/cli/blogs"
	"github.com/crucial707/blogfeed/cmd/cli/root"
	"github.com/crucial707/blogfeed/cmd/cli/seed"
	"github.com/crucial707/blogfeed/cmd/cli/users"
)

func main() {
	rootCmd := root.GetRoot()
	auth.InitAuth(rootCmd)
	users.InitUsers(rootCmd)
	blogs.InitBlogs(rootCmd)
	seed.InitSeed(rootCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
