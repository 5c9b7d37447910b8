package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-backend/api"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rpupo63/portfolio-backend/storage"
)

const (
	driverS3     = "s3"
	driverMinio  = "minio"
	driverMemory = "memory"
)

// storageDriver picks STORAGE_DRIVER, falling back to s3 when an endpoint is
// configured and to memory otherwise.
func storageDriver(c map[string]string) string {
	if driver := config.GetString(c, "STORAGE_DRIVER", ""); driver != "" {
		return driver
	}
	if config.GetString(c, "STORAGE_ENDPOINT", "") != "" {
		return driverS3
	}
	return driverMemory
}

func openStore(ctx context.Context, c map[string]string) (storage.ObjectStore, error) {
	endpoint := config.GetString(c, "STORAGE_ENDPOINT", "")
	accessKey := config.GetString(c, "STORAGE_ACCESS_KEY", "")
	secretKey := config.GetString(c, "STORAGE_SECRET_KEY", "")

	switch driver := storageDriver(c); driver {
	case driverS3:
		return storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:  endpoint,
			Region:    config.GetString(c, "STORAGE_REGION", "us-east-1"),
			AccessKey: accessKey,
			SecretKey: secretKey,
		})
	case driverMinio:
		if endpoint == "" {
			return nil, errs.NewConfigError("object storage", errs.NewEnvironmentVariableError("STORAGE_ENDPOINT"))
		}
		store, err := storage.NewMinioStore(storage.MinioConfig{
			Endpoint:  endpoint,
			AccessKey: accessKey,
			SecretKey: secretKey,
			UseSSL:    config.GetBool(c, "STORAGE_USE_SSL", false),
		})
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBuckets(ctx, storage.Buckets()...); err != nil {
			return nil, err
		}
		return store, nil
	case driverMemory:
		log.Warn().Msg("no object storage configured, images are kept in memory and lost on restart")
		return storage.NewMemoryStore(storage.Buckets()...), nil
	default:
		return nil, errs.NewConfigInvalidError("STORAGE_DRIVER", fmt.Sprintf("unknown driver %q", driver))
	}
}

func newGateway(ctx context.Context, c map[string]string) (*storage.Gateway, error) {
	store, err := openStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("open object storage: %w", err)
	}
	publicBase := config.GetString(c, "STORAGE_PUBLIC_URL", config.GetString(c, "SUPABASE_URL", ""))
	if publicBase == "" {
		log.Warn().Msg("STORAGE_PUBLIC_URL is not set, image URLs will be relative")
	}
	return storage.NewGateway(store, publicBase, maxUploadBytes(c)), nil
}

func maxUploadBytes(c map[string]string) int64 {
	return int64(config.GetInt(c, "MAX_UPLOAD_BYTES", int(storage.DefaultMaxUploadBytes)))
}

func httpClientTimeout(c map[string]string) time.Duration {
	return config.GetSeconds(c, "HTTP_CLIENT_TIMEOUT_SECONDS", 30)
}

func newChatService(c map[string]string, profile *config.Profile) (*services.ChatService, error) {
	prompt, err := services.RenderSystemPrompt(profile)
	if err != nil {
		return nil, fmt.Errorf("render chat prompt: %w", err)
	}
	chat := services.NewChatService(services.ChatConfig{
		APIKey:  config.GetString(c, "GEMINI_API_KEY", ""),
		BaseURL: config.GetString(c, "GEMINI_API_URL", services.DefaultGeminiURL),
		Model:   config.GetString(c, "GEMINI_MODEL", services.DefaultGeminiModel),
		Timeout: httpClientTimeout(c),
	}, prompt)
	if err := chat.CheckConfig(); err != nil {
		log.Warn().Err(err).Msg("chat is disabled")
	}
	return chat, nil
}

func newContactService(c map[string]string) *services.ContactService {
	accessKey := config.GetString(c, "FORM_RELAY_ACCESS_KEY", "")
	if accessKey == "" {
		log.Warn().Msg("FORM_RELAY_ACCESS_KEY is not set, contact messages will fail")
	}

	var notifiers []services.Notifier
	if email := services.NewEmailNotifier(services.EmailConfig{
		APIKey:    config.GetString(c, "RESEND_API_KEY", ""),
		FromEmail: config.GetString(c, "RESEND_FROM_EMAIL", ""),
		To:        config.GetList(c, "CONTACT_EMAIL"),
		Timeout:   httpClientTimeout(c),
	}); email != nil {
		notifiers = append(notifiers, email)
	}
	if sms := services.NewSMSNotifier(services.SMSConfig{
		AccountSID: config.GetString(c, "TWILIO_ACCOUNT_SID", ""),
		AuthToken:  config.GetString(c, "TWILIO_AUTH_TOKEN", ""),
		From:       config.GetString(c, "TWILIO_FROM", ""),
		To:         config.GetString(c, "TWILIO_TO", ""),
	}); sms != nil {
		notifiers = append(notifiers, sms)
	}

	return services.NewContactService(services.ContactConfig{
		RelayURL:  config.GetString(c, "FORM_RELAY_URL", services.DefaultFormRelayURL),
		AccessKey: accessKey,
		Timeout:   httpClientTimeout(c),
	}, notifiers...)
}

func newAuthenticator(c map[string]string) *api.Authenticator {
	auth := api.NewAuthenticator(api.AuthConfig{
		Secret:       config.GetString(c, "JWT_SECRET", ""),
		AdminEmail:   config.GetString(c, "ADMIN_EMAIL", ""),
		PasswordHash: config.GetString(c, "ADMIN_PASSWORD_HASH", ""),
		TTL:          time.Duration(config.GetInt(c, "JWT_TTL_MINUTES", 720)) * time.Minute,
	})
	if err := auth.CheckConfig(); err != nil {
		log.Warn().Err(err).Msg("admin sign-in is disabled")
	}
	return auth
}

func healthChecks(db database.Database, gateway *storage.Gateway) []api.HealthCheck {
	checks := []api.HealthCheck{{
		Name: "database",
		Check: func(ctx context.Context) error {
			sqlDB, err := db.DB().DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}}
	for _, bucket := range storage.Buckets() {
		checks = append(checks, api.HealthCheck{
			Name:  "bucket:" + bucket,
			Check: func(ctx context.Context) error { return gateway.CheckBucket(ctx, bucket) },
		})
	}
	return checks
}
