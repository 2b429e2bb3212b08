package cli

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/missionctl/missionctl/internal/auth"
	"github.com/missionctl/missionctl/internal/config"
	"github.com/missionctl/missionctl/internal/gateway"
	"github.com/missionctl/missionctl/internal/kanban"
	"github.com/missionctl/missionctl/internal/roster"
	"github.com/missionctl/missionctl/internal/timeline"
	webassets "github.com/missionctl/missionctl/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Mission Control dashboard server",
	Run:   runServe,
}

var serveStartTime = time.Now()

// upgrader accepts same-origin websocket connections for the log tail.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	},
}

func serveAsset(w http.ResponseWriter, name string) {
	data, err := webassets.Files.ReadFile(name)
	if err != nil {
		http.Error(w, "asset not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func runServe(cmd *cobra.Command, args []string) {
	printHeader("🛰️ Mission Control")
	fmt.Println("Starting Mission Control...")

	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Config error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Server.AccessKey == "" {
		fmt.Println("⚠️ No access key configured; logins will be rejected (set MISSION_CONTROL_KEY)")
	}

	// 2. Gateway client
	client, err := gateway.NewClient(cfg.Gateway.URL, cfg.Gateway.Token, cfg.Gateway.Timeout)
	if err != nil {
		fmt.Printf("Gateway error: %v\n", err)
		os.Exit(1)
	}

	// 3. Activity log
	timeSvc, err := timeline.NewService(cfg.Timeline.Path)
	if err != nil {
		fmt.Printf("Failed to init timeline: %v\n", err)
		os.Exit(1)
	}
	defer timeSvc.Close()
	if cfg.Mirror.Enabled && cfg.Mirror.Brokers != "" {
		timeSvc.SetMirror(timeline.NewMirror(cfg.Mirror.Brokers, cfg.Mirror.Topic))
		fmt.Printf("📡 Mirroring activity log to Kafka topic %s\n", cfg.Mirror.Topic)
	}

	secureCookies := cfg.Server.SecureCookies || (cfg.Server.TLSCert != "" && cfg.Server.TLSKey != "")
	gate := auth.NewGate(cfg.Server.AccessKey, secureCookies)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// fetchBoth issues the session and cron fetches concurrently. A cron
	// failure degrades to no data; only the session failure is surfaced.
	fetchBoth := func(ctx context.Context, limit int) (sessionsRaw, cronRaw any, err error) {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			sessionsRaw, err = client.SessionsList(ctx, limit)
		}()
		go func() {
			defer wg.Done()
			if jobs, cronErr := client.CronList(ctx); cronErr == nil {
				cronRaw = jobs
			}
		}()
		wg.Wait()
		return sessionsRaw, cronRaw, err
	}

	// 4. Kanban store with periodic refresh
	store := kanban.NewStore(func(ctx context.Context) (any, any, error) {
		return fetchBoth(ctx, cfg.Refresh.SessionLimit)
	}, cfg.Refresh.KanbanInterval)
	go store.Run(ctx, func(err error) {
		timeSvc.Error("kanban", fmt.Sprintf("Erro ao atualizar kanban: %v", err))
	})

	mux := http.NewServeMux()

	// API: Status (unauthenticated health check)
	mux.HandleFunc("/api/v1/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"version":        version,
			"uptime_seconds": int(time.Since(serveStartTime).Seconds()),
		})
	})

	// API: Login / Logout
	mux.HandleFunc("/api/auth", func(w http.ResponseWriter, r *http.Request) {
		gate.HandleLogin(w, r)
		if r.Method == http.MethodPost {
			timeSvc.Info("auth", "Tentativa de login")
		}
	})

	// API: Tool invocation proxy. One pass-through call, no retries; the
	// bearer token stays server-side.
	mux.HandleFunc("/api/tools/invoke", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var body struct {
			Tool string         `json:"tool"`
			Args map[string]any `json:"args"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Tool == "" {
			writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "details": "tool required"})
			return
		}
		env, err := client.InvokeRaw(r.Context(), body.Tool, body.Args)
		if err != nil {
			timeSvc.Error("proxy", fmt.Sprintf("Erro na ferramenta %s: %v", body.Tool, err))
			writeJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "details": err.Error()})
			return
		}
		if !env.OK {
			details := env.Error
			if details == "" {
				details = "Gateway error"
			}
			writeJSON(w, http.StatusBadGateway, map[string]any{"ok": false, "details": details})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "result": env.Result})
	})

	// API: Home status strip
	mux.HandleFunc("/api/v1/overview", func(w http.ResponseWriter, r *http.Request) {
		sessionsRaw, cronRaw, err := fetchBoth(r.Context(), 10)
		if err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]any{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, roster.BuildOverview(sessionsRaw, cronRaw))
	})

	// API: Agent roster
	mux.HandleFunc("/api/v1/agents", func(w http.ResponseWriter, r *http.Request) {
		sessionsRaw, cronRaw, err := fetchBoth(r.Context(), 50)
		if err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]any{"error": err.Error()})
			return
		}
		agents := roster.BuildAgents(sessionsRaw, cronRaw, time.Now())
		subAgents := roster.SubAgentIDs(agents)
		if subAgents == nil {
			subAgents = []string{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"agents":    agents,
			"subAgents": subAgents,
		})
	})

	// API: Dashboard cards + counters
	mux.HandleFunc("/api/v1/dashboard", func(w http.ResponseWriter, r *http.Request) {
		sessionsRaw, cronRaw, err := fetchBoth(r.Context(), cfg.Refresh.SessionLimit)
		if err != nil {
			timeSvc.Error("dashboard", fmt.Sprintf("Erro: %v", err))
			writeJSON(w, http.StatusBadGateway, map[string]any{"error": err.Error()})
			return
		}
		agents := roster.BuildAgents(sessionsRaw, cronRaw, time.Now())
		stats := roster.BuildStats(agents, cronRaw)
		timeSvc.Info("dashboard", fmt.Sprintf("%d sessões carregadas", stats.Total))
		writeJSON(w, http.StatusOK, map[string]any{
			"stats":  stats,
			"agents": agents,
		})
	})

	// API: Kanban board state
	mux.HandleFunc("/api/v1/kanban", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, store.Board())
	})

	// API: Kanban manual move. In-memory only; the next refresh rebuilds
	// the board from live data and discards it.
	mux.HandleFunc("/api/v1/kanban/move", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var body struct {
			TaskID string `json:"taskId"`
			From   string `json:"from"`
			To     string `json:"to"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		moved := store.MoveTask(body.TaskID, kanban.Bucket(body.From), kanban.Bucket(body.To))
		writeJSON(w, http.StatusOK, map[string]any{"moved": moved})
	})

	// API: Activity log
	mux.HandleFunc("/api/v1/logs", func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if v := r.URL.Query().Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				limit = n
			}
		}
		events, err := timeSvc.Recent(limit)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		if events == nil {
			events = []timeline.Event{}
		}
		writeJSON(w, http.StatusOK, events)
	})

	// API: Live activity log tail
	mux.HandleFunc("/api/v1/logs/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		events, unsubscribe := timeSvc.Subscribe()
		defer unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case <-r.Context().Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteJSON(ev); err != nil {
					return
				}
			}
		}
	})

	// API: Gateway config passthrough (ConfigEditor)
	mux.HandleFunc("/api/v1/config", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			result, err := client.ConfigGet(r.Context())
			if err != nil {
				writeJSON(w, http.StatusBadGateway, map[string]any{"error": err.Error()})
				return
			}
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			if s, ok := result.(string); ok {
				fmt.Fprint(w, s)
				return
			}
			pretty, _ := json.MarshalIndent(result, "", "  ")
			w.Write(pretty)
		case http.MethodPost:
			raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
			if err != nil {
				http.Error(w, "invalid body", http.StatusBadRequest)
				return
			}
			if _, err := client.ConfigApply(r.Context(), string(raw)); err != nil {
				timeSvc.Error("config", fmt.Sprintf("Erro ao aplicar configuração: %v", err))
				writeJSON(w, http.StatusBadGateway, map[string]any{"error": err.Error()})
				return
			}
			timeSvc.Info("config", "Configuração aplicada")
			writeJSON(w, http.StatusOK, map[string]any{"applied": true})
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// API: Gateway restart passthrough
	mux.HandleFunc("/api/v1/restart", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if _, err := client.Restart(r.Context(), "dashboard request"); err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]any{"error": err.Error()})
			return
		}
		timeSvc.Info("config", "Gateway reiniciado")
		writeJSON(w, http.StatusOK, map[string]any{"restarting": true})
	})

	// Static assets
	mux.Handle("/static/", http.FileServer(http.FS(webassets.Files)))

	// Pages
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		serveAsset(w, "login.html")
	})
	mux.HandleFunc("/dashboard", func(w http.ResponseWriter, r *http.Request) {
		serveAsset(w, "dashboard.html")
	})
	mux.HandleFunc("/agentes", func(w http.ResponseWriter, r *http.Request) {
		serveAsset(w, "agentes.html")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		serveAsset(w, "index.html")
	})

	handler := gate.Middleware(mux)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{Addr: addr, Handler: handler}

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\n👋 Shutting down...")
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		server.Shutdown(shutdownCtx)
	}()

	timeSvc.Info("server", "Mission Control iniciado")

	if cfg.Server.TLSCert != "" && cfg.Server.TLSKey != "" {
		fmt.Printf("🖥️  Mission Control listening on https://%s\n", addr)
		cert, err := tls.LoadX509KeyPair(cfg.Server.TLSCert, cfg.Server.TLSKey)
		if err != nil {
			fmt.Printf("❌ TLS cert load failed: %v\n", err)
			os.Exit(1)
		}
		server.TLSConfig = &tls.Config{Certificates: []tls.Certificate{cert}}
		if err := server.ListenAndServeTLS("", ""); err != nil && err != http.ErrServerClosed {
			fmt.Printf("❌ Server FAILED to start: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Printf("🖥️  Mission Control listening on http://%s\n", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("❌ Server FAILED to start: %v\n", err)
			os.Exit(1)
		}
	}
}
