package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
)

const defaultSecretBytes = 32

func main() {
	if err := run(os.Stdout, rand.Reader, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error while generating secrets: %v\n", err)
		os.Exit(1)
	}
}

// Print .env lines with fresh access and refresh secrets
func run(w io.Writer, random io.Reader, args []string) error {
	fs := pflag.NewFlagSet("gensecret", pflag.ContinueOnError)
	size := fs.IntP("bytes", "b", defaultSecretBytes, "Secret length in bytes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *size < 16 {
		return fmt.Errorf("secret of %d bytes is too short", *size)
	}

	for _, key := range []string{"JWT_ACCESS_SECRET", "JWT_REFRESH_SECRET"} {
		b := make([]byte, *size)
		if _, err := io.ReadFull(random, b); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s=%s\n", key, hex.EncodeToString(b)); err != nil {
			return err
		}
	}

	return nil
}
