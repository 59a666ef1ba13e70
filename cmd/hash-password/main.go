// Command hash-password prints a bcrypt hash for a password, using the same
// hasher as the server. The password is taken from the first argument or
// read from the terminal without echo.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phrazzld/passgate/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost factor")
	flag.Parse()

	if err := run(flag.Args(), *cost, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string, cost int, stdin *os.File, stdout, stderr io.Writer) error {
	password, err := passwordFrom(args, stdin, stderr)
	if err != nil {
		return err
	}
	if password == "" {
		return errors.New("password must not be empty")
	}

	hash, err := auth.NewBcryptHasher(cost).Hash(password)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdout, hash)
	return err
}

// passwordFrom returns the first argument, prompts on a terminal, or reads
// one line from piped stdin.
func passwordFrom(args []string, stdin *os.File, stderr io.Writer) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	fd := int(stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(stderr, "Password: ")
		b, err := readPassword(fd)
		fmt.Fprintln(stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
