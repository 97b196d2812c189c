package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"thrive/config"
	"thrive/database"
	"thrive/repository"
	"thrive/router"
	"thrive/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/term"
	"gorm.io/gorm"
)

// @title Thrive API
// @version 1.0
// @description Personal finance tracking: expenses, incomes, savings goals, dashboards and admin reporting.
// @host localhost:3000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const version = "1.0.0"

var (
	configFile  string
	port        string
	showVersion bool
	seed        bool
	createAdmin string
)

func init() {
	flag.StringVar(&configFile, "config", "", "external config file (optional)")
	flag.StringVar(&configFile, "c", "", "external config file (shorthand)")
	flag.StringVar(&port, "port", "", "listen port, e.g. 3000 or :3000")
	flag.StringVar(&port, "p", "", "listen port (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.BoolVar(&showVersion, "v", false, "print version and exit (shorthand)")
	flag.BoolVar(&seed, "seed", false, "wipe all data, load the sample account and exit")
	flag.StringVar(&createAdmin, "create-admin", "", "create the first admin with this email and exit")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Printf("thrive v%s", version)
		return
	}

	// .env 可选
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: load .env: %v", err)
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("port from command line: %s", port)
	}

	config.PrintConfig(cfg)

	db, err := database.Init(cfg)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	switch {
	case seed:
		runSeed(db)
		return
	case createAdmin != "":
		runCreateAdmin(db, createAdmin)
		return
	}

	deps := router.Deps{DB: db}
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			// the limiter fails open, keep serving
			log.Printf("warning: redis %s unreachable: %v", cfg.Redis.Addr, err)
		}
		cancel()
		defer rdb.Close()
		deps.Redis = rdb
	}

	r := router.SetupRouter(cfg, deps)

	log.Printf("==========================================")
	log.Printf("  Thrive API v%s", version)
	log.Printf("==========================================")
	log.Printf("  API:     http://localhost%s/api/", cfg.Server.Port)
	log.Printf("  Swagger: http://localhost%s/swagger/index.html", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func runSeed(db *gorm.DB) {
	res, err := database.Seed(db, time.Now())
	if err != nil {
		log.Fatalf("seed: %v", err)
	}
	log.Printf("seeded %s (password %s): %d expenses, %d incomes, %d goals",
		res.User.Email, database.SamplePassword, res.Expenses, res.Incomes, res.Goals)
}

func runCreateAdmin(db *gorm.DB, email string) {
	password, err := readPassword(fmt.Sprintf("Password for %s: ", email))
	if err != nil {
		log.Fatalf("read password: %v", err)
	}

	admin := service.NewAdminService(
		repository.NewUserRepository(db),
		repository.NewExpenseRepository(db),
		repository.NewIncomeRepository(db),
		repository.NewGoalRepository(db),
	)
	profile, err := admin.CreateBootstrapAdmin(context.Background(), service.BootstrapInput{
		Email:    email,
		Password: password,
	})
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("admin created: #%d %s", profile.ID, profile.Email)
}

// readPassword prompts without echo on a terminal and reads one line otherwise.
func readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
