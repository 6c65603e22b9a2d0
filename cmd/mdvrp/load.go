package main

import (
	"fmt"
	"io"
	"log/slog"
	"mdvrp-service/internal/domain"
	"mdvrp-service/internal/loader"
	"os"

	"github.com/urfave/cli"
)

func loadArg(c *cli.Context) (*domain.ProblemInstance, error) {
	if c.NArg() != 1 {
		return nil, fmt.Errorf("%s: exactly one instance file is required", c.Command.Name)
	}

	var w io.Writer = io.Discard
	if c.GlobalBool("verbose") {
		w = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return loader.New(logger).Load(c.Args().First())
}
