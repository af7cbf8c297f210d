// ABOUTME: Entry point for the casebloom storefront server
// ABOUTME: Serves the API and provides the create-admin bootstrap command

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/casebloom/casebloom/internal/auth"
	"github.com/casebloom/casebloom/internal/config"
	"github.com/casebloom/casebloom/internal/render"
	"github.com/casebloom/casebloom/internal/server"
	"github.com/casebloom/casebloom/internal/shipping"
	"github.com/casebloom/casebloom/internal/store"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
                          _     _
  ___ __ _ ___  ___ _ __ | | __(_) ___  ___  _ __ ___
 / __/ _' / __|/ _ \ '_ \| |/ _' |/ _ \/ _ \| '_ ' _ \
| (_| (_| \__ \  __/ |_) | | (_| | (_) | (_) | | | | | |
 \___\__,_|___/\___|_.__/|_|\__,_|\___/\___/|_| |_| |_|
`

func configPath() string {
	if envPath := os.Getenv("CASEBLOOM_CONFIG"); envPath != "" {
		return envPath
	}
	return "casebloom.yaml"
}

func main() {
	// A missing .env is fine; explicit env vars still win.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Println("Usage: casebloom <command>")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  serve                     Start the storefront server")
		fmt.Println("  create-admin --username U Create a back-office account")
		fmt.Println("  token --username U        Mint a session token for an account")
		fmt.Println("  version                   Print the version")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(ctx)
	case "create-admin":
		err = runCreateAdmin(ctx)
	case "token":
		err = runToken(ctx)
	case "version":
		fmt.Println(version)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	if err != nil {
		color.New(color.FgRed).Fprint(os.Stderr, "Error: ")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServe(ctx context.Context) error {
	path := configPath()

	cyan := color.New(color.FgCyan)
	cyan.Print(banner)
	color.New(color.FgHiBlack).Printf("    version: %s\n\n", version)

	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:   %s\n", path)
	green.Print("    ▶ ")
	fmt.Printf("HTTP:     %s\n", cfg.Server.HTTPAddr)
	green.Print("    ▶ ")
	fmt.Printf("Database: %s\n", cfg.Database.Path)
	if cfg.Shipping.BaseURL != "" {
		green.Print("    ▶ ")
		fmt.Printf("Shipping: %s\n", cfg.Shipping.BaseURL)
	}
	fmt.Println()

	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	sessions, err := auth.NewSessions([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return fmt.Errorf("creating session issuer: %w", err)
	}

	srvCfg := server.Config{
		Store:        st,
		Sessions:     sessions,
		Logger:       logger.With("component", "server"),
		CookieSecure: cfg.Auth.CookieSecure,
	}
	if cfg.Shipping.BaseURL != "" {
		srvCfg.Courier = shipping.NewClient(
			cfg.Shipping.BaseURL,
			cfg.Shipping.ClientID,
			cfg.Shipping.ClientSecret,
			cfg.Shipping.TokenTTL,
		)
	}
	if cfg.Render.ProviderURL != "" {
		srvCfg.Pipeline = render.NewPipeline(
			render.NewHTTPProvider(cfg.Render.ProviderURL, cfg.Render.Timeout),
		)
	}

	count, err := st.CountAdminUsers(ctx)
	if err != nil {
		return fmt.Errorf("checking admin accounts: %w", err)
	}
	if count == 0 {
		logger.Warn("no back-office accounts exist; run `casebloom create-admin`")
	}

	logger.Info("starting casebloom", "http_addr", cfg.Server.HTTPAddr, "db", cfg.Database.Path)
	return server.New(srvCfg).Start(ctx, cfg.Server.HTTPAddr)
}

func runCreateAdmin(ctx context.Context) error {
	fs := flag.NewFlagSet("create-admin", flag.ExitOnError)
	username := fs.String("username", "", "account username (required)")
	email := fs.String("email", "", "account email (required)")
	role := fs.String("role", "admin", "role: admin, manager, or staff")
	if err := fs.Parse(os.Args[2:]); err != nil {
		return err
	}
	if *username == "" || *email == "" {
		return fmt.Errorf("--username and --email are required")
	}
	if !auth.ValidRole(auth.Role(*role)) {
		return fmt.Errorf("invalid role %q", *role)
	}

	cfg, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	password, err := readPassword()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user := &store.AdminUser{
		Username:     *username,
		Email:        *email,
		PasswordHash: string(hash),
		Role:         *role,
		CreatedAt:    time.Now().UTC(),
	}
	if err := st.CreateAdminUser(ctx, user); err != nil {
		return fmt.Errorf("creating account: %w", err)
	}

	color.New(color.FgGreen).Printf("Created %s account %q (id %d)\n", user.Role, user.Username, user.ID)
	return nil
}

// runToken mints a session token for an existing account. Useful for
// driving the admin API from scripts without going through login.
func runToken(ctx context.Context) error {
	fs := flag.NewFlagSet("token", flag.ExitOnError)
	username := fs.String("username", "", "account username (required)")
	if err := fs.Parse(os.Args[2:]); err != nil {
		return err
	}
	if *username == "" {
		return fmt.Errorf("--username is required")
	}

	cfg, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	user, err := st.GetAdminUserByUsername(ctx, *username)
	if err != nil {
		return fmt.Errorf("looking up %q: %w", *username, err)
	}

	sessions, err := auth.NewSessions([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return fmt.Errorf("creating session issuer: %w", err)
	}
	token, err := sessions.CreateToken(&auth.Identity{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     auth.Role(user.Role),
	})
	if err != nil {
		return fmt.Errorf("minting token: %w", err)
	}

	fmt.Println(token)
	return nil
}

func readPassword() (string, error) {
	fmt.Print("Password: ")
	if term.IsTerminal(int(os.Stdin.Fd())) {
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return string(raw), nil
	}
	// Piped input for scripted setups.
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
