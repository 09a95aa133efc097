package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	defaultReadTimeout     = 30 * time.Second
	defaultWriteTimeout    = 60 * time.Second
	defaultShutdownTimeout = 30 * time.Second

	gracefulEnvKey     = "IS_GRACEFUL"
	gracefulListenerFD = 3
)

// Server wraps http.Server to support graceful shutdown (SIGTERM, SIGINT) and
// zero-downtime restart (SIGUSR2 hands the listener to a freshly exec'd child).
type Server struct {
	*http.Server

	listener   net.Listener
	inherited  bool
	onShutdown []func(context.Context) error
	done       chan struct{}
}

// NewServer creates a Server with timeouts and handler.
func NewServer(addr string, handler http.Handler) *Server {
	return &Server{
		Server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadTimeout:       defaultReadTimeout,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      defaultWriteTimeout,
		},
		inherited: os.Getenv(gracefulEnvKey) != "",
		done:      make(chan struct{}),
	}
}

// OnShutdown registers fn to run after the HTTP server drained, e.g. flushing traces.
func (srv *Server) OnShutdown(fn func(context.Context) error) {
	srv.onShutdown = append(srv.onShutdown, fn)
}

// ListenAndServe serves until a shutdown signal has been fully handled.
func (srv *Server) ListenAndServe() error {
	ln, err := srv.listen()
	if err != nil {
		return err
	}
	srv.listener = ln

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM, syscall.SIGINT, syscall.SIGUSR2)
	go srv.handleSignals(sigs)

	err = srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		<-srv.done
		return nil
	}
	return err
}

func (srv *Server) listen() (net.Listener, error) {
	if srv.inherited {
		ln, err := net.FileListener(os.NewFile(gracefulListenerFD, ""))
		if err != nil {
			return nil, fmt.Errorf("inherit listener: %w", err)
		}
		return ln, nil
	}
	addr := srv.Addr
	if addr == "" {
		addr = ":http"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return ln, nil
}

func (srv *Server) handleSignals(sigs chan os.Signal) {
	for sig := range sigs {
		switch sig {
		case syscall.SIGTERM, syscall.SIGINT:
			Sugar.Infof("received %s, shutting down HTTP server", sig)
			srv.shutdown()
			return
		case syscall.SIGUSR2:
			Sugar.Info("received SIGUSR2, restarting HTTP server")
			pid, err := srv.fork()
			if err != nil {
				Sugar.Errorf("start new process failed: %v, continue serving", err)
				continue
			}
			Sugar.Infof("new process started pid=%d, draining old server", pid)
			srv.shutdown()
			return
		}
	}
}

func (srv *Server) shutdown() {
	defer close(srv.done)
	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		Sugar.Errorf("HTTP server shutdown error: %v", err)
	} else {
		Sugar.Info("HTTP server shutdown complete")
	}
	for _, fn := range srv.onShutdown {
		if err := fn(ctx); err != nil {
			Sugar.Warnf("shutdown hook failed: %v", err)
		}
	}
}

// fork re-executes the binary with the listening socket as fd 3.
func (srv *Server) fork() (int, error) {
	tcpLn, ok := srv.listener.(*net.TCPListener)
	if !ok {
		return 0, errors.New("listener is not *net.TCPListener")
	}
	f, err := tcpLn.File()
	if err != nil {
		return 0, fmt.Errorf("listener file: %w", err)
	}
	defer f.Close()

	env := append(os.Environ(), gracefulEnvKey+"=1")
	attr := &syscall.ProcAttr{
		Env:   env,
		Files: []uintptr{os.Stdin.Fd(), os.Stdout.Fd(), os.Stderr.Fd(), f.Fd()},
	}
	return syscall.ForkExec(os.Args[0], os.Args, attr)
}
