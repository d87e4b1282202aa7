package system

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/smartgrow/internal/cli"
	"github.com/julianstephens/smartgrow/internal/environment"
	"github.com/julianstephens/smartgrow/internal/logger"
	"github.com/julianstephens/smartgrow/internal/notifier"
	"github.com/julianstephens/smartgrow/internal/server"
)

type ServeCmd struct {
	Addr string `help:"Listen address (host:port). Defaults to the configured address."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	addr := c.Addr
	if addr == "" && ctx.Config != nil {
		addr = ctx.Config.Serve.Addr
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	defer ln.Close()

	lock, release, err := notifier.Acquire(ln.Addr().(*net.TCPAddr).Port)
	if err != nil {
		if errors.Is(err, notifier.ErrAlreadyRunning) {
			return fmt.Errorf("another smartgrow server is already running: %w", err)
		}
		return err
	}
	defer func() {
		if err := release(); err != nil {
			logger.Warn("Failed to release lockfile", "error", err)
		}
	}()

	// The sampler stands in for the user's greenhouse, so its alerts land in
	// the namespace the server was started under.
	userID := ctx.Store.User().UserID
	var srv *server.Server
	sampler := ctx.Sampler(func(prev, cur environment.Reading) {
		srv.ObserveEnvironment(userID, prev, cur)
	})
	srv = server.New(server.Config{
		Backend:  ctx.Backend,
		Provider: ctx.Provider,
		Sampler:  sampler,
		Secret:   lock.Secret,
		Language: ctx.Language(),
		Location: ctx.Location(),
		Now:      ctx.Now,
	})

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(sigCtx)

	g.Go(func() error {
		return srv.Serve(gctx, ln)
	})
	g.Go(func() error {
		sampler.Start(gctx)
		<-gctx.Done()
		sampler.Stop()
		return nil
	})

	fmt.Printf("SmartGrow API listening on http://%s (Ctrl+C to stop)\n", ln.Addr())
	if err := g.Wait(); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	fmt.Println("Server stopped.")
	return nil
}
