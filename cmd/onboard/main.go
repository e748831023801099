// Package main is the OnBoard CLI entry point.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/umbrellahq/onboard/internal/assistant"
	"github.com/umbrellahq/onboard/internal/config"
	"github.com/umbrellahq/onboard/internal/embedding"
	"github.com/umbrellahq/onboard/internal/employee"
	"github.com/umbrellahq/onboard/internal/llm"
	"github.com/umbrellahq/onboard/internal/server"
	"github.com/umbrellahq/onboard/internal/session"
	"github.com/umbrellahq/onboard/internal/watcher"
	"github.com/umbrellahq/onboard/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/onboard/config.yaml"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "chat":
		runChat()
	case "serve":
		runServe()
	case "index":
		runIndex()
	case "profile":
		runProfile()
	case "version", "--version", "-v":
		fmt.Printf("onboard version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`OnBoard - employee onboarding assistant

Usage:
  onboard chat    [-config path] [-debug]   interactive onboarding chat
  onboard serve   [-config path] [-debug]   HTTP session API
  onboard index   [-config path] [-debug]   force a knowledge-base rebuild
  onboard profile [-config path]            print a sample employee profile
  onboard version

The GROQ_API_KEY environment variable supplies the language-model key unless
llm.api_key is set in the config.`)
}

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used instead.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// bootstrap loads config, builds the logger, and wires the session manager.
func bootstrap(fs *flag.FlagSet, args []string) (*config.Config, *zap.Logger, *session.Manager) {
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(args)

	cfg, resolvedPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.Info("config loaded",
		zap.String("config_path", resolvedPath),
		zap.Bool("debug", debugMode),
	)

	modelCache := embedding.NewModelCache(logger)
	client := llm.NewClient(llm.Config{
		APIBase:     cfg.LLM.APIBase,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		Logger:      logger,
	})
	return cfg, logger, session.NewManager(cfg, modelCache, client, logger)
}

func runChat() {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	_, logger, manager := bootstrap(fs, os.Args[2:])
	defer logger.Sync()

	ctx := context.Background()
	if err := manager.Open(ctx); err != nil {
		logger.Fatal("Failed to open knowledge base", zap.Error(err))
	}
	sess, err := manager.CreateSession()
	if err != nil {
		logger.Fatal("Failed to create session", zap.Error(err))
	}

	fmt.Println(assistant.WelcomeMessage)
	fmt.Printf("\n(You are %s %s, %s in %s. Type 'exit' to quit.)\n\n",
		sess.Profile.Name, sess.Profile.LastName, sess.Profile.Position, sess.Profile.Department)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		stream, err := sess.Respond(ctx, input)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		for frag := range stream {
			if frag.Err != nil {
				fmt.Printf("\nerror: %v\n", frag.Err)
				break
			}
			fmt.Print(frag.Content)
		}
		fmt.Println()
		fmt.Println()
	}
}

func runServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfg, logger, manager := bootstrap(fs, os.Args[2:])
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := manager.Open(ctx); err != nil {
		logger.Fatal("Failed to open knowledge base", zap.Error(err))
	}

	if cfg.Document.Watch {
		w := watcher.NewWatcher(cfg.Document.Path, func() {
			if err := manager.Rebuild(context.Background()); err != nil {
				logger.Error("rebuild after document change failed", zap.Error(err))
			}
		}, watcher.WithLogger(logger))
		if err := w.Start(ctx); err != nil {
			logger.Fatal("Failed to start document watcher", zap.Error(err))
		}
	}

	srv := server.NewServer(manager, &cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}

func runIndex() {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	cfg, logger, manager := bootstrap(fs, os.Args[2:])
	defer logger.Sync()

	if err := manager.Rebuild(context.Background()); err != nil {
		logger.Fatal("Rebuild failed", zap.Error(err))
	}
	base := manager.Base()
	fmt.Printf("Indexed %d chunks from %s into %s\n", base.Size(), cfg.Document.Path, cfg.Index.Path)
}

func runProfile() {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	_ = fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	profile := employee.NewGenerator().Generate()
	out, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		fmt.Printf("Failed to render profile: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
