// Comando seedadmin crea (o promueve) la cuenta de administrador.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"dinoco-api/internal/config"
	"dinoco-api/internal/db"
	"dinoco-api/internal/logging"
	"dinoco-api/internal/mailer"
	"dinoco-api/internal/repository"
	"dinoco-api/internal/service"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F45E6E"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6ef4a1ff"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6EC4F4"))
)

func printS(style lipgloss.Style, format string, a ...any) {
	fmt.Println(style.Render(fmt.Sprintf(format, a...)))
}

func main() {
	email := flag.String("email", "admin@dinoco.local", "email del admin")
	password := flag.String("password", "Admin@123456", "contraseña si hay que crearlo")
	name := flag.String("name", "Admin", "nombre si hay que crearlo")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		printS(errorStyle, "✗ Config error: %v", err)
		os.Exit(1)
	}
	logging.Init(logging.Config{Level: "warn", Format: "console"})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, database, err := db.Connect(ctx, cfg.Mongo)
	if err != nil {
		printS(errorStyle, "✗ Database error: %v", err)
		os.Exit(1)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := db.EnsureIndexes(ctx, database); err != nil {
		printS(errorStyle, "✗ Database error: %v", err)
		os.Exit(1)
	}

	authSvc := service.NewAuthService(
		repository.NewUserRepository(database),
		repository.NewOTPRepository(database),
		mailer.New(cfg.SMTP),
		service.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTTTL),
		service.AuthOptions{OTPTTL: cfg.Auth.OTPTTL},
	)

	outcome, err := authSvc.EnsureAdmin(ctx, *name, *email, *password)
	if err != nil {
		printS(errorStyle, "✗ Could not seed admin: %v", err)
		os.Exit(1)
	}

	switch outcome {
	case service.AdminExists:
		printS(successStyle, "✓ Admin user already exists: %s", *email)
	case service.AdminUpgraded:
		printS(successStyle, "✓ Upgraded %s to admin", *email)
	case service.AdminCreated:
		printS(successStyle, "✓ Admin user created successfully!")
		printS(infoStyle, "  Email: %s", *email)
		printS(infoStyle, "  Password: %s", *password)
	}
}
