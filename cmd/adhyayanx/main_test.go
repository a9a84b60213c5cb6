package main

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/adhyayanx/teachhub/internal/testutil"
)

func Test_run(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	port, err := testutil.RandomPort()
	require.NoError(t, err, "failed to get random port to start server")
	listenAddr := fmt.Sprintf("localhost:%d", port)

	noenv := func(string) string { return "" }
	getwd := func() (string, error) { return t.TempDir(), nil }

	t.Run("stop with signal", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond) // Half Second
		t.Cleanup(cancel)

		err := run(ctx, noenv, getwd, []string{
			"--address", listenAddr,
			"--log-level", "debug",
			"--environment", "development",
			"--database", pg.DSN,
			"--access-secret", "access",
			"--refresh-secret", "refresh",
		})

		require.NoError(t, err, "on correct stop should not return error")
	})

	t.Run("stop with srv error", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond) // Half Second
		t.Cleanup(cancel)

		// Try to run without secrets. Must fail
		err := run(ctx, noenv, getwd, []string{
			"--address", listenAddr,
			"--log-level", "debug",
			"--database", pg.DSN,
		})

		require.Error(t, err, "on incorrect stop should return error")
	})

	t.Run("equal secrets rejected", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		t.Cleanup(cancel)

		err := run(ctx, noenv, getwd, []string{
			"--address", listenAddr,
			"--database", pg.DSN,
			"--access-secret", "same",
			"--refresh-secret", "same",
		})

		require.Error(t, err)
	})
}
