package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	nbhttp "github.com/fwojciec/newsbrief/http"
)

// shutdownTimeout bounds graceful shutdown of the agent.
const shutdownTimeout = 5 * time.Second

// Run executes the agent command. It serves until the context is canceled.
func (c *AgentCmd) Run(deps *Dependencies) error {
	ln, err := net.Listen("tcp", c.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", c.Addr, err)
	}
	return serveAgent(deps, ln)
}

func serveAgent(deps *Dependencies, ln net.Listener) error {
	srv := &http.Server{
		Handler:           nbhttp.NewAgentHandler(deps.Messenger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	fmt.Fprintf(deps.Stdout, "Serving page receiver on %s\n", ln.Addr())

	select {
	case err := <-errCh:
		return err
	case <-deps.Ctx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
