package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	stdnet "net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"InkBoard/internal/board"
	"InkBoard/internal/config"
	"InkBoard/internal/logging"
	"InkBoard/internal/net"
	"InkBoard/internal/tool"
	"InkBoard/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML config file")
	headless := flag.Bool("headless", false, "serve the board without opening a window")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	browse := flag.Duration("browse", 0, "list boards advertised on the network for this long, then exit")
	flag.Parse()

	var err error
	if *browse > 0 {
		err = browseBoards(*configPath, *browse)
	} else {
		err = run(*configPath, *headless, *logLevel)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "inkboard:", err)
		os.Exit(1)
	}
}

func run(configPath string, headless bool, logLevel string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logging.SetLogger(logging.New(cfg.LogLevel, os.Stderr))
	log := logging.For("main")

	b, err := board.New(cfg)
	if err != nil {
		return fmt.Errorf("create board: %w", err)
	}
	log.Info("board ready", "session", b.SessionID())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := net.NewServer(b)
	bound := make(chan stdnet.Addr, 1)
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe(ctx, cfg.Server.Addr, func(a stdnet.Addr) { bound <- a })
	}()

	var addr stdnet.Addr
	select {
	case addr = <-bound:
	case err := <-serveErr:
		return err
	}

	shareLink, err := net.ShareURL(addr.String())
	if err != nil {
		log.Warn("no share link", "err", err)
	}
	log.Info("[HOST] serving", "link", shareLink)

	if cfg.Server.Advertise {
		if tcp, ok := addr.(*stdnet.TCPAddr); ok {
			mdnsServer, err := net.Advertise(cfg.Server.Service, tcp.Port)
			if err != nil {
				log.Warn("mDNS advertise failed", "err", err)
			} else {
				defer mdnsServer.Shutdown()
			}
		}
	}

	if headless {
		b.OnRedraw(srv.Notify)
		if err := b.ActivateTool(tool.Pencil, tool.Options{}); err != nil {
			return err
		}
		log.Info("running headless", "port", portOf(addr))
		select {
		case <-ctx.Done():
		case err := <-serveErr:
			return err
		}
		return nil
	}

	ui.RunApp(b, shareLink, srv.Notify)
	stop()
	if err := <-serveErr; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func browseBoards(configPath string, timeout time.Duration) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return net.Browse(ctx, cfg.Server.Service, timeout, func(p net.Peer) {
		fmt.Printf("%s\thttp://%s/\n", p.Name, p.Addr)
	})
}

func portOf(a stdnet.Addr) int {
	if tcp, ok := a.(*stdnet.TCPAddr); ok {
		return tcp.Port
	}
	return 0
}
