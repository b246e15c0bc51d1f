// internal/infra/config/config.go
package config

import "os"

// Config holds environment-driven settings for the whole application.
type Config struct {
	Port string

	GCPProjectID             string
	GCPCreds                 string
	FirestoreProjectID       string
	FirestoreCredentialsFile string
	FirebaseProjectID        string

	// Cart persistence
	CartKey string

	// Order submission store (Postgres)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	// When set, the password is resolved from Secret Manager instead of
	// DB_PASSWORD (secretId, version "latest").
	DBPasswordSecret string

	// Order confirmation mail
	SendGridAPIKey       string
	SendGridAPIKeySecret string
	MailFrom             string

	// Catalog images
	ImageBucket string
}

// Load reads environment variables and returns a Config.
func Load() *Config {
	defaultProject := os.Getenv("GCP_PROJECT_ID")

	return &Config{
		Port: getenvDefault("PORT", "8080"),

		GCPProjectID:             defaultProject,
		GCPCreds:                 os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		FirestoreProjectID:       getenvDefault("FIRESTORE_PROJECT_ID", defaultProject),
		FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		FirebaseProjectID:        getenvDefault("FIREBASE_PROJECT_ID", defaultProject),

		CartKey: getenvDefault("CART_KEY", "cart"),

		DBHost:           getenvDefault("DB_HOST", "localhost"),
		DBPort:           getenvDefault("DB_PORT", "5432"),
		DBUser:           getenvDefault("DB_USER", "tastebite"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           getenvDefault("DB_NAME", "tastebite"),
		DBPasswordSecret: os.Getenv("DB_PASSWORD_SECRET"),

		SendGridAPIKey:       os.Getenv("SENDGRID_API_KEY"),
		SendGridAPIKeySecret: os.Getenv("SENDGRID_API_KEY_SECRET"),
		MailFrom:             os.Getenv("MAIL_FROM"),

		ImageBucket: os.Getenv("IMAGE_BUCKET"),
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
