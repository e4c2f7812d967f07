// Command ircc connects to an IRC server and logs everything it receives.
// It is a thin shell over the client engine; see the irc package.
package main

import (
	"crypto/tls"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/presbrey/ircclient/irc"
	"github.com/presbrey/ircclient/irc/config"
)

func main() {
	// Define command-line flags
	configPath := flag.String("config", "", "Config file or URL (yaml, toml or json)")
	host := flag.String("host", "", "IRC server host (overrides config)")
	port := flag.Int("port", 0, "IRC server port (overrides config)")
	password := flag.String("password", "", "Server password (overrides config)")
	nick := flag.String("nick", "", "Nickname (overrides config)")
	channels := flag.String("channels", "", "Comma-separated channels to join (overrides config)")
	useTLS := flag.Bool("tls", false, "Connect over TLS")
	metricsAddr := flag.String("metrics", "", "Expose Prometheus metrics on this address (e.g. :7070)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg := &config.Config{}
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	// Flags win over the config file
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 6667
	}
	if *password != "" {
		cfg.Server.Password = *password
	}
	if *nick != "" {
		cfg.User.Nickname = *nick
	}
	if *channels != "" {
		cfg.Channels = strings.Split(*channels, ",")
	}
	if *useTLS {
		cfg.Server.TLS = *useTLS
	}
	if *debug {
		cfg.Session.Debug = *debug
	}

	if cfg.Server.Host == "" || cfg.User.Nickname == "" {
		log.Fatal("A server host and a nickname are required (flags or config file)")
	}

	// Log startup configuration
	log.Printf("Connecting to %s:%d as %s (tls=%v, channels=%v)",
		cfg.Server.Host, cfg.Server.Port, cfg.User.Nickname, cfg.Server.TLS, cfg.Channels)

	client, err := irc.NewClient(cfg.Server.Host, cfg.Server.Port, cfg.Server.Password, irc.ConnectionInfo{
		Nickname: cfg.User.Nickname,
		Username: cfg.User.Username,
		Realname: cfg.User.Realname,
		Channels: cfg.Channels,
	}, optionsFromConfig(cfg))
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}

	// Expose engine metrics if requested
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(irc.Registry, promhttp.HandlerOpts{}))
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Printf("Metrics server error: %v", err)
			}
		}()
	}

	messages, err := client.Start()
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}

	// Stop cleanly on termination signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutdown signal received, stopping client...")
		client.Quit("Leaving")
		client.Stop()
	}()

	for msg := range messages {
		log.Printf("%s", msg.Raw)
	}

	if err := client.Err(); err != nil {
		log.Fatalf("Session ended with error: %v", err)
	}
	log.Println("Session closed. Goodbye!")
}

// optionsFromConfig maps the session tuning block to engine options.
func optionsFromConfig(cfg *config.Config) *irc.Options {
	opts := &irc.Options{
		DeliveryBuffer: cfg.Session.DeliveryBuffer,
		Debug:          cfg.Session.Debug,
	}
	if cfg.Server.TLS {
		opts.TLSConfig = &tls.Config{ServerName: cfg.Server.Host}
	}
	if cfg.Session.DialTimeoutSeconds > 0 {
		opts.DialTimeout = time.Duration(cfg.Session.DialTimeoutSeconds) * time.Second
	}
	if cfg.Session.IdleTimeoutSeconds > 0 {
		opts.IdleTimeout = time.Duration(cfg.Session.IdleTimeoutSeconds) * time.Second
	}
	return opts
}
