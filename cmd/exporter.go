package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/kardianos/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"zmctl/internal/client"
	"zmctl/internal/config"
	"zmctl/pkg/models"
)

// Variables to hold flag values
var (
	expHost       string
	expUser       string
	expPass       string
	expAuthMode   string
	expPort       string
	serviceAction string
)

const scrapeTimeout = 10 * time.Second

// --- SERVICE WRAPPER ---

// program implements the kardianos/service interface
type program struct {
	exit   chan struct{}
	server *http.Server
	api    *client.ZoneMinderClient
	log    zerolog.Logger
}

func (p *program) Start(s service.Service) error {
	// Start should not block. Do the actual work async.
	p.exit = make(chan struct{})
	go p.run()
	return nil
}

func (p *program) run() {
	// A failed first login is not fatal: every scrape logs in again until the
	// server accepts us, and zoneminder_up reports the outage meanwhile.
	ctx, cancel := context.WithTimeout(context.Background(), scrapeTimeout)
	if mode, err := p.api.Login(ctx); err != nil {
		p.log.Warn().Err(err).Msg("initial login failed")
	} else {
		p.log.Info().Str("mode", string(mode)).Msg("initial login successful")
	}
	cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(&ZoneMinderCollector{Client: p.api, Log: p.log})

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	})

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	addr := fmt.Sprintf(":%s", expPort)
	p.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	p.log.Info().Str("addr", addr).Msg("ZoneMinder exporter listening")

	// Blocking call to listen
	if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		p.log.Error().Err(err).Msg("HTTP server error")
	}
}

func (p *program) Stop(s service.Service) error {
	// Stop should not block. Signal the app to stop.
	p.log.Info().Msg("stopping service")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if p.server != nil {
		if err := p.server.Shutdown(ctx); err != nil {
			p.log.Error().Err(err).Msg("server forced to shutdown")
		}
	}
	close(p.exit)
	return nil
}

// --- COLLECTOR LOGIC ---

type ZoneMinderCollector struct {
	Client *client.ZoneMinderClient
	Log    zerolog.Logger
	Mutex  sync.Mutex
}

var (
	upDesc = prometheus.NewDesc(
		"zoneminder_up", "Was the last scrape successful.", nil, nil,
	)
	scrapeDurationDesc = prometheus.NewDesc(
		"zoneminder_scrape_duration_seconds", "Time taken to scrape API.", nil, nil,
	)
	daemonRunningDesc = prometheus.NewDesc(
		"zoneminder_daemon_running", "Capture daemons running (1) or stopped (0).", nil, nil,
	)
	infoDesc = prometheus.NewDesc(
		"zoneminder_info", "Server and API version.", []string{"version", "api_version"}, nil,
	)
	serverCountDesc = prometheus.NewDesc(
		"zoneminder_servers_total", "Number of servers detected.", nil, nil,
	)
	monitorInfoDesc = prometheus.NewDesc(
		"zoneminder_monitor_info", "Enabled monitor.", []string{"id", "name", "function", "server_id"}, nil,
	)
	monitorCountDesc = prometheus.NewDesc(
		"zoneminder_monitors_total", "Enabled monitors grouped by function.", []string{"function"}, nil,
	)
)

func (c *ZoneMinderCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- upDesc
	ch <- scrapeDurationDesc
	ch <- daemonRunningDesc
	ch <- infoDesc
	ch <- serverCountDesc
	ch <- monitorInfoDesc
	ch <- monitorCountDesc
}

func (c *ZoneMinderCollector) Collect(ch chan<- prometheus.Metric) {
	c.Mutex.Lock()
	defer c.Mutex.Unlock()
	start := time.Now()
	success := 1.0

	ctx, cancel := context.WithTimeout(context.Background(), scrapeTimeout)
	defer cancel()

	// 1. Daemons
	var st models.DaemonStatus
	if err := c.decodeWithReauth(ctx, c.Client.Status, &st); err == nil {
		running := 0.0
		if st.Running() {
			running = 1.0
		}
		ch <- prometheus.MustNewConstMetric(daemonRunningDesc, prometheus.GaugeValue, running)
	} else {
		success = 0.0
		c.Log.Error().Err(err).Msg("error scraping daemon status")
	}

	// 2. Version
	var v models.Version
	if err := c.decodeWithReauth(ctx, c.Client.Version, &v); err == nil {
		ch <- prometheus.MustNewConstMetric(infoDesc, prometheus.GaugeValue, 1, v.Version, v.APIVersion)
	} else {
		c.Log.Warn().Err(err).Msg("error scraping version")
	}

	// 3. Servers (the client retries a failed listing after logging in again)
	if srvs, err := c.Client.Servers(ctx); err == nil {
		ch <- prometheus.MustNewConstMetric(serverCountDesc, prometheus.GaugeValue, float64(len(srvs)))
	} else {
		success = 0.0
		c.Log.Error().Err(err).Msg("error scraping servers")
	}

	// 4. Monitors
	if monitors, err := c.fetchMonitorsWithRetry(ctx); err == nil {
		counts := make(map[string]float64)
		for _, m := range monitors {
			fn := m.Function
			if fn == "" {
				fn = "Unknown"
			}
			ch <- prometheus.MustNewConstMetric(monitorInfoDesc, prometheus.GaugeValue, 1, m.ID.String(), m.Name, fn, m.ServerID.String())
			counts[fn]++
		}
		for fn, cnt := range counts {
			ch <- prometheus.MustNewConstMetric(monitorCountDesc, prometheus.GaugeValue, cnt, fn)
		}
	} else {
		success = 0.0
		c.Log.Error().Err(err).Msg("error scraping monitors")
	}

	ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, success)
	ch <- prometheus.MustNewConstMetric(scrapeDurationDesc, prometheus.GaugeValue, time.Since(start).Seconds())
}

// --- RETRY HELPERS ---
func (c *ZoneMinderCollector) decodeWithReauth(ctx context.Context, fetch func(context.Context) (*client.Response, error), v any) error {
	resp, err := fetch(ctx)
	if err != nil && client.IsAuthError(err) {
		c.Client.Reauth()
		resp, err = fetch(ctx)
	}
	if err != nil {
		return err
	}
	return resp.Decode(v)
}

func (c *ZoneMinderCollector) fetchMonitorsWithRetry(ctx context.Context) ([]models.Monitor, error) {
	res, err := c.Client.Monitors(ctx)
	if err == nil {
		return res, nil
	}
	if client.IsAuthError(err) {
		c.Client.Reauth()
		return c.Client.Monitors(ctx)
	}
	return nil, err
}

// --- COMMAND ---

var exporterCmd = &cobra.Command{
	Use:   "exporter",
	Short: "Start Prometheus Exporter service",
	Long: `Starts a long-running HTTP server that exposes ZoneMinder metrics.
Can be installed as a system service. Connection settings default to the
saved configuration.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Setup Client Config, flags override the saved settings
		settings := config.Load()
		if expHost != "" {
			settings.Host = expHost
		}
		if expUser != "" {
			settings.User = expUser
		}
		if expPass != "" {
			settings.Password = expPass
		}
		if expAuthMode != "" {
			settings.AuthMode = expAuthMode
		}

		// 2. Define Service Configuration
		svcConfig := &service.Config{
			Name:        "zoneminder-exporter",
			DisplayName: "ZoneMinder Prometheus Exporter",
			Description: "Exposes ZoneMinder metrics to Prometheus",
			// Arguments passed to the binary when run as a service
			Arguments: []string{
				"exporter",
				"--host", settings.Host,
				"--username", settings.User,
				"--password", settings.Password,
				"--port", expPort,
			},
		}
		if settings.AuthMode != "" {
			svcConfig.Arguments = append(svcConfig.Arguments, "--auth-mode", settings.AuthMode)
		}

		// 3. Handle Service Control Actions (Install, Start, Stop, Uninstall)
		if serviceAction != "" {
			if serviceAction == "install" {
				if settings.Host == "" || settings.User == "" || settings.Password == "" {
					log.Fatal("Error: You must provide all credentials (--host, --username, --password) to install the service.")
				}
			}
		}

		api, err := client.New(settings.ClientConfig(&logger))
		if err != nil && serviceAction == "" {
			log.Fatalf("Error: %v", err)
		}

		prg := &program{
			api: api,
			log: logger.With().Str("component", "exporter").Logger(),
		}

		s, err := service.New(prg, svcConfig)
		if err != nil {
			log.Fatal(err)
		}

		if serviceAction != "" {
			err = service.Control(s, serviceAction)
			if err != nil {
				log.Fatalf("Failed to %s service: %v", serviceAction, err)
			}
			fmt.Printf("Service action '%s' completed successfully.\n", serviceAction)
			return
		}

		// 4. Run the Service (Blocking)
		// This happens when the Service Manager starts the binary, OR when run interactively without flags
		svcLogger, err := s.Logger(nil)
		if err != nil {
			log.Fatal(err)
		}
		if err = s.Run(); err != nil {
			svcLogger.Error(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(exporterCmd)
	exporterCmd.Flags().StringVar(&expHost, "host", "", "Server URL (default: saved config)")
	exporterCmd.Flags().StringVar(&expUser, "username", "", "ZoneMinder username (default: saved config)")
	exporterCmd.Flags().StringVar(&expPass, "password", "", "ZoneMinder password (default: saved config)")
	exporterCmd.Flags().StringVar(&expAuthMode, "auth-mode", "", "Login protocol: auto, token or cookie")
	exporterCmd.Flags().StringVar(&expPort, "port", "9112", "Port to listen on")

	exporterCmd.Flags().StringVar(&serviceAction, "service", "", "Service action: install, uninstall, start, stop")
}
