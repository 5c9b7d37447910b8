package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rpupo63/portfolio-backend/api"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rpupo63/portfolio-backend/storage"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var cfg map[string]string

	cmd := &cobra.Command{
		Use:           "portfolio-backend",
		Short:         "Portfolio content API, chat proxy and contact relay",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			cfg = loaded
			setupLogging(cfg)
			return nil
		},
	}

	cmd.AddCommand(
		serveCmd(&cfg),
		chatProxyCmd(&cfg),
		reconcileCmd(&cfg),
		generateModelsCmd(&cfg),
	)
	return cmd
}

func setupLogging(cfg map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(cfg, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if config.GetString(cfg, "LOG_FORMAT", "console") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func serveCmd(cfg *map[string]string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the public, admin and chat API",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			ctx := cmd.Context()
			log.Info().Msg("Initializing app...")

			db, err := database.Open(c)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			currentDB := database.New(db)

			gateway, err := newGateway(ctx, c)
			if err != nil {
				return err
			}

			profile, err := config.LoadProfile(config.GetString(c, "PROFILE_PATH", ""))
			if err != nil {
				return err
			}
			chat, err := newChatService(c, profile)
			if err != nil {
				return err
			}

			deps := api.Dependencies{
				Projects:       services.NewProjectService(currentDB.ProjectRepo(), currentDB.ProjectTechnologyRepo(), gateway),
				Technologies:   services.NewTechnologyService(currentDB.TechnologyRepo(), gateway),
				Certificates:   services.NewCertificateService(currentDB.CertificateRepo(), gateway),
				Chat:           chat,
				Contact:        newContactService(c),
				Profile:        profile,
				Auth:           newAuthenticator(c),
				HealthChecks:   healthChecks(currentDB, gateway),
				MaxUploadBytes: maxUploadBytes(c),
			}

			server, err := api.NewServer(c, deps)
			if err != nil {
				return fmt.Errorf("initialize server: %w", err)
			}
			runServer(server)
			return nil
		},
	}
}

func chatProxyCmd(cfg *map[string]string) *cobra.Command {
	return &cobra.Command{
		Use:   "chat-proxy",
		Short: "Run only the chat proxy",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			profile, err := config.LoadProfile(config.GetString(c, "PROFILE_PATH", ""))
			if err != nil {
				return err
			}
			chat, err := newChatService(c, profile)
			if err != nil {
				return err
			}

			server, err := api.NewChatServer(c, chat)
			if err != nil {
				return fmt.Errorf("initialize chat server: %w", err)
			}
			runServer(server)
			return nil
		},
	}
}

func reconcileCmd(cfg *map[string]string) *cobra.Command {
	var (
		minAge time.Duration
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Delete stored images no row references",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			ctx := cmd.Context()

			db, err := database.Open(c)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			currentDB := database.New(db)

			gateway, err := newGateway(ctx, c)
			if err != nil {
				return err
			}

			reconciler := services.NewReconciler(gateway, map[string]services.PathSource{
				storage.BucketProjects:     currentDB.ProjectRepo(),
				storage.BucketTechnologies: currentDB.TechnologyRepo(),
				storage.BucketCertificates: currentDB.CertificateRepo(),
			})
			orphans, err := reconciler.Run(ctx, services.ReconcileOptions{MinAge: minAge, DryRun: dryRun})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(orphans)
		},
	}

	cmd.Flags().DurationVar(&minAge, "min-age", 24*time.Hour, "Only delete blobs uploaded at least this long ago")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report orphans without deleting them")
	return cmd
}

func generateModelsCmd(cfg *map[string]string) *cobra.Command {
	var (
		outPath    string
		reportOnly bool
	)

	cmd := &cobra.Command{
		Use:   "generate-models",
		Short: "Migrate the schema, generate query helpers and report column mismatches",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Open(*cfg)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}

			if !reportOnly {
				if err := models.Migrate(db); err != nil {
					return err
				}
				if err := models.GenerateModels(db, outPath); err != nil {
					return err
				}
			}

			mismatches, err := models.GenerateColumnMismatchReport(db)
			if err != nil {
				return err
			}
			if len(mismatches) > 0 {
				return fmt.Errorf("%d table(s) have column mismatches", len(mismatches))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "./query", "Output directory for generated query helpers")
	cmd.Flags().BoolVar(&reportOnly, "report-only", false, "Only print the column mismatch report")
	return cmd
}

func runServer(server api.Server) {
	// Both senders may fire; the buffer keeps the loser from blocking.
	errChannel := make(chan error, 2)

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(shutdownTimeout)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
