package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/taskboard/tui/internal/app"
	"github.com/taskboard/tui/internal/client"
	"github.com/taskboard/tui/internal/config"
)

func main() {
	configPath := flag.String("config", "taskboard.yaml", "Path to the YAML config file")
	serverURL := flag.String("url", "", "REST base URL of the taskboard server (overrides config)")
	wsURL := flag.String("ws-url", "", "WebSocket base URL (overrides config; derived from -url if empty)")
	logPath := flag.String("log", "", "Write debug logs to this file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *serverURL != "" {
		cfg.Server.URL = *serverURL
	}
	if *wsURL != "" {
		cfg.Server.WSURL = *wsURL
	}
	if cfg.Server.WSURL == "" {
		cfg.Server.WSURL = deriveWSBase(cfg.Server.URL)
	}

	if *logPath != "" {
		f, err := tea.LogToFile(*logPath, "taskboard")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	}

	sessions := client.NewStore(client.NewMemoryStorage())
	channels := client.NewChannelManager(cfg.Server.WSURL)
	gw := client.NewGateway(cfg.Server.URL, sessions, channels)
	coord := client.NewCoordinator(gw, channels, sessions)

	// Channels connect as soon as a session exists and tear down on expiry.
	sessions.OnEstablished(channels.Initialize)
	sessions.OnExpired(channels.Close)

	m := app.New(gw, channels, coord, sessions, cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// deriveWSBase converts http://host:port → ws://host:port/ws
func deriveWSBase(httpURL string) string {
	u, err := url.Parse(httpURL)
	if err != nil {
		return "ws://127.0.0.1:8080/ws"
	}
	scheme := "ws"
	if strings.HasPrefix(u.Scheme, "https") {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s/ws", scheme, u.Host)
}
