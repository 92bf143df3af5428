// Package main is the authctl command line client: login, logout, profile
// and directory operations against the auth backend, with a locally
// persisted session.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		printUsage()
		return fmt.Errorf("subcommand required")
	}

	subcommand := os.Args[1]
	args := os.Args[2:]

	switch subcommand {
	case "login":
		return runLogin(args)
	case "register":
		return runRegister(args)
	case "logout":
		return runLogout(args)
	case "whoami":
		return runWhoami(args)
	case "profile":
		return runProfile(args)
	case "users":
		return runUsers(args)
	case "token":
		return runToken(args)
	case "theme":
		return runTheme(args)
	case "-h", "--help", "help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown subcommand: %q", subcommand)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: authctl <subcommand> [flags]

Subcommands:
  login       Authenticate and persist the session
  register    Create an account and log in
  logout      End the session and clear stored credentials
  whoami      Show the authenticated user
  profile     Update the authenticated user's profile
  users       List accounts (one page)
  token       Inspect the stored access token
  theme       Get or set the output colour theme

Run 'authctl <subcommand> --help' for subcommand flags.
`)
}
