package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"typoguard/internal/config"
	"typoguard/internal/customrules"
	"typoguard/internal/detector"
	"typoguard/internal/payload"
	"typoguard/internal/report"
	"typoguard/internal/watch"
	"typoguard/pkg/options"
)

type rootFlags struct {
	text        string
	configPath  string
	customRules bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	rootCmd := &cobra.Command{
		Use:   "typoguard",
		Short: "Find known misspellings, grammar errors and style issues in text",
		Long: "Without --text, scans a built-in sample and prints a readable report.\n" +
			"With --text, decodes the base64 argument and prints the findings as JSON;\n" +
			"undecodable input prints [] and still exits 0.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRoot(cmd, &flags)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&flags.customRules, "custom-rules", false, "also scan custom rules stored in Redis")
	rootCmd.Flags().StringVar(&flags.text, "text", "", "base64-encoded UTF-8 text to scan")

	rootCmd.AddCommand(newCheckCmd(&flags))

	return rootCmd
}

func runRoot(cmd *cobra.Command, flags *rootFlags) error {
	out := cmd.OutOrStdout()
	cfg := loadConfig(flags)
	d := buildDetector(cmd.Context(), cfg, flags)

	if flags.text == "" {
		return report.WriteText(out, d.Scan(detector.SampleText))
	}

	text, err := payload.Decode(flags.text)
	if err != nil {
		log.Printf("decode input: %v", err)
		return report.WriteJSON(out, nil)
	}
	return report.WriteJSON(out, d.Scan(text))
}

func newCheckCmd(flags *rootFlags) *cobra.Command {
	var watchFile bool

	checkCmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Scan a UTF-8 text file and print the findings as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(flags)
			d := buildDetector(cmd.Context(), cfg, flags)
			out := cmd.OutOrStdout()

			if err := checkFile(out, d, args[0]); err != nil {
				return err
			}
			if !watchFile {
				return nil
			}
			return watchAndCheck(cmd.Context(), out, d, args[0], cfg.WatchDebounce)
		},
	}

	checkCmd.Flags().BoolVar(&watchFile, "watch", false, "rescan whenever the file changes")

	return checkCmd
}

func checkFile(out io.Writer, d *detector.Detector, path string) error {
	text, err := payload.ReadFile(path)
	if err != nil {
		log.Printf("read input: %v", err)
		return report.WriteJSON(out, nil)
	}
	return report.WriteJSON(out, d.Scan(text))
}

func watchAndCheck(ctx context.Context, out io.Writer, d *detector.Detector, path string, debounce time.Duration) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Stop()

	changed := make(chan struct{}, 1)
	err = w.Watch(path, debounce, func(string) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changed:
			if err := checkFile(out, d, path); err != nil {
				return err
			}
		}
	}
}

func loadConfig(flags *rootFlags) *config.Config {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		log.Printf("config: %v; using defaults", err)
		return config.DefaultConfig()
	}
	return cfg
}

// buildDetector adds the Redis custom rules when enabled. Any store failure
// falls back to the built-in catalog.
func buildDetector(ctx context.Context, cfg *config.Config, flags *rootFlags) *detector.Detector {
	if !flags.customRules && !cfg.CustomRules {
		return detector.New()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	rules, err := customrules.New(client, cfg.Redis.Key).All(ctx)
	if err != nil {
		log.Printf("custom rules unavailable: %v", err)
		return detector.New()
	}
	return detector.New(options.WithExtraRules(detector.Specs(rules)...))
}
