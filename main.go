package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/KingFrozMulti/codeql-action/internal/api"
	"github.com/KingFrozMulti/codeql-action/internal/config"
	"github.com/KingFrozMulti/codeql-action/internal/diskspace"
	"github.com/KingFrozMulti/codeql-action/internal/envvars"
	"github.com/KingFrozMulti/codeql-action/internal/guard"
	"github.com/KingFrozMulti/codeql-action/internal/resources"
	"github.com/KingFrozMulti/codeql-action/internal/sarif"
	"github.com/KingFrozMulti/codeql-action/internal/version"
)

// Version information (set during build)
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// parseLogLevel parses the LOG_LEVEL environment variable and returns the
// appropriate logrus level. Defaults to InfoLevel if not set or invalid.
func parseLogLevel() logrus.Level {
	logLevelStr := envvars.Get(envvars.LogLevel)
	switch strings.ToLower(logLevelStr) {
	case "debug":
		return logrus.DebugLevel
	case "info", "":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func main() {
	// A local .env is convenient when running outside CI.
	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetLevel(parseLogLevel())
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	coordinator := guard.NewCoordinator(logger)

	app := &cli.App{
		Name:    "codeql-action",
		Usage:   "resolves safe resource budgets and pre-flight checks for running the CodeQL CLI",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a YAML defaults file",
				Value: config.DefaultPath(),
			},
		},
		Commands: []*cli.Command{
			resourcesCommand(logger),
			checkDiskCommand(logger, coordinator),
			applyCategoryCommand(logger),
			checkVersionCommand(logger),
			serverURLCommand(logger),
		},
	}

	err := app.Run(os.Args)

	// Must run after everything else: a timed-out guard leaves background
	// work behind that would otherwise keep the process alive indefinitely.
	coordinator.CheckAndExit(2 * time.Second)

	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

// resourcesCommand prints the --ram and --threads values the pipeline should
// pass to the CodeQL CLI. Precedence for overrides: flag, then environment,
// then the defaults file; with no override the values are derived from the
// host.
func resourcesCommand(logger *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:  "resources",
		Usage: "Print --ram and --threads values for the CodeQL CLI",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "ram",
				Usage: fmt.Sprintf("Explicit memory budget in MB (overrides %s)", envvars.RAM),
			},
			&cli.StringFlag{
				Name:  "threads",
				Usage: fmt.Sprintf("Explicit thread count, negative to reserve cores (overrides %s)", envvars.Threads),
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(logger, c.String("config"))
			if err != nil {
				return err
			}

			ram, err := resources.ResolveMemoryMB(logger, firstNonEmpty(c.String("ram"), envvars.Get(envvars.RAM), cfg.RAM))
			if err != nil {
				return err
			}
			threads, err := resources.ResolveThreads(logger, firstNonEmpty(c.String("threads"), envvars.Get(envvars.Threads), cfg.Threads), runtime.NumCPU())
			if err != nil {
				return err
			}

			fmt.Printf("--ram=%d --threads=%d\n", ram, threads)
			return nil
		},
	}
}

// checkDiskCommand reports free disk space and the size of a folder. The
// folder walk has no cancellation mechanism and can hang on dead network
// filesystems, so it runs under a timeout guard and is abandoned when the
// deadline fires.
func checkDiskCommand(logger *logrus.Logger, coordinator *guard.Coordinator) *cli.Command {
	return &cli.Command{
		Name:  "check-disk",
		Usage: "Check free disk space and report the size of a folder",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Usage: "Folder to check",
				Value: ".",
			},
			&cli.DurationFlag{
				Name:  "max-wait",
				Usage: "Give up measuring the folder size after this long",
				Value: 30 * time.Second,
			},
		},
		Action: func(c *cli.Context) error {
			path := c.String("path")
			maxWait := c.Duration("max-wait")

			usage, err := diskspace.Check(logger, path)
			if err != nil {
				return err
			}
			fmt.Printf("available: %d MB of %d MB\n", usage.AvailableBytes/(1024*1024), usage.TotalBytes/(1024*1024))

			size, timedOut := guard.Run(coordinator, maxWait, func() int64 {
				return diskspace.DirSize(logger, path)
			}, func() {
				logger.Warnf("Timed out measuring the size of %s after %s, the walk continues in the background", path, maxWait)
			})
			if !timedOut {
				fmt.Printf("folder size: %d bytes\n", size)
			}
			return nil
		},
	}
}

// applyCategoryCommand rewrites a SARIF file with an automation category and
// with duplicate tool execution notifications removed.
func applyCategoryCommand(logger *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:  "apply-category",
		Usage: "Set the automation category on a SARIF file and tidy it for upload",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Usage: "SARIF file to read", Required: true},
			&cli.StringFlag{Name: "output", Usage: "File to write (defaults to rewriting the input)"},
			&cli.StringFlag{Name: "category", Usage: "Automation category to set", Required: true},
		},
		Action: func(c *cli.Context) error {
			input := c.String("input")
			output := c.String("output")
			if output == "" {
				output = input
			}

			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("failed to read SARIF file %s: %w", input, err)
			}
			data, err = sarif.InjectCategory(data, c.String("category"))
			if err != nil {
				return err
			}
			data, err = sarif.RemoveDuplicateNotifications(logger, data)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write SARIF file %s: %w", output, err)
			}
			return nil
		},
	}
}

// checkVersionCommand warns when a CodeQL CLI version is outside the range
// this helper has been tested with.
func checkVersionCommand(logger *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:      "check-version",
		Usage:     "Warn if a CodeQL CLI version is outside the supported range",
		ArgsUsage: "<version>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one CodeQL CLI version argument")
			}
			return version.CheckSupported(logger, c.Args().First())
		},
	}
}

// serverURLCommand canonicalises a GitHub server URL and prints the derived
// REST API endpoint for it.
func serverURLCommand(logger *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:      "server-url",
		Usage:     "Canonicalise a GitHub server URL and print its API endpoint",
		ArgsUsage: "[url]",
		Action: func(c *cli.Context) error {
			raw := c.Args().First()
			if raw == "" {
				cfg, err := config.Load(logger, c.String("config"))
				if err != nil {
					return err
				}
				raw = cfg.GitHubServerURL
			}
			serverURL, err := api.CanonicalServerURL(raw)
			if err != nil {
				return err
			}
			fmt.Printf("server: %s\napi: %s\n", serverURL, api.APIURL(serverURL))
			return nil
		},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
