// internal/platform/di/container.go
package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	_ "github.com/lib/pq"

	httpin "tastebite/internal/adapters/in/http"
	gcsout "tastebite/internal/adapters/out/gcs"
	mailout "tastebite/internal/adapters/out/mail"
	pgout "tastebite/internal/adapters/out/postgres"

	fsout "tastebite/internal/adapters/out/firestore"
	usecase "tastebite/internal/application/usecase"
	appcfg "tastebite/internal/infra/config"
)

// Container owns the external clients and the wired application objects.
// main.go stays thin: NewContainer, RouterDeps, Close.
type Container struct {
	Config *appcfg.Config

	// Clients (owned; Close-managed)
	Firestore     *firestore.Client
	GCS           *storage.Client
	FirebaseApp   *firebase.App
	FirebaseAuth  *firebaseauth.Client
	SecretManager *secretmanager.Client
	DB            *sql.DB

	// Application
	CartStore  *usecase.CartStore
	CheckoutUC *usecase.CheckoutUsecase
	OrderUC    *usecase.OrderQueryUsecase
	Catalog    *fsout.CatalogRepositoryFS
}

// NewContainer initializes clients and wires the application.
//
// Firestore and the cart store are strict (the cart core cannot run without
// its durable storage). Firebase Auth, Secret Manager, Postgres, GCS and
// SendGrid are best-effort: a failure disables the dependent feature with a
// warning, and the router mounts only what is available.
func NewContainer(ctx context.Context) (*Container, error) {
	cfg := appcfg.Load()

	projectID := strings.TrimSpace(cfg.FirestoreProjectID)
	if projectID == "" {
		return nil, errors.New("di: projectID is empty (set FIRESTORE_PROJECT_ID or GCP_PROJECT_ID)")
	}

	c := &Container{Config: cfg}

	// Credentials file (optional; mainly for local dev)
	credFile := strings.TrimSpace(cfg.FirestoreCredentialsFile)
	if credFile == "" {
		credFile = strings.TrimSpace(cfg.GCPCreds)
	}
	var clientOpts []option.ClientOption
	if credFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credFile))
		log.Printf("[di] using credentials file for GCP clients")
	} else {
		log.Printf("[di] using Application Default Credentials")
	}

	// 1) Firestore (strict)
	fsClient, err := firestore.NewClient(ctx, projectID, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("di: firestore.NewClient: %w", err)
	}
	c.Firestore = fsClient

	// 2) Secret Manager (best-effort)
	if sm, err := secretmanager.NewClient(ctx, clientOpts...); err != nil {
		log.Printf("[di] WARN: secretmanager.NewClient failed: %v (secret resolution disabled)", err)
	} else {
		c.SecretManager = sm
	}

	// 3) Firebase Auth (best-effort; checkout and order history need it)
	fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, clientOpts...)
	if err != nil {
		log.Printf("[di] WARN: firebase.NewApp failed: %v (auth-gated routes disabled)", err)
	} else {
		c.FirebaseApp = fbApp
		if authClient, err := fbApp.Auth(ctx); err != nil {
			log.Printf("[di] WARN: firebase Auth init failed: %v (auth-gated routes disabled)", err)
		} else {
			c.FirebaseAuth = authClient
		}
	}

	// 4) Cart store on its Firestore-backed repository (strict)
	cartRepo := fsout.NewCartRepositoryFS(c.Firestore, cfg.CartKey)
	store, err := usecase.NewCartStore(ctx, cartRepo)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("di: cart store init: %w", err)
	}
	c.CartStore = store

	// 5) Postgres order store (best-effort)
	if db, err := c.openOrderDB(ctx); err != nil {
		log.Printf("[di] WARN: order db unavailable: %v (checkout and order history disabled)", err)
	} else {
		c.DB = db
		orderRepo := pgout.NewOrderRepositoryPG(db)

		checkout := usecase.NewCheckoutUsecase(c.CartStore, orderRepo)
		if mailer := c.buildMailer(ctx); mailer != nil {
			checkout = checkout.WithMailer(mailer, cfg.MailFrom)
		}
		c.CheckoutUC = checkout
		c.OrderUC = usecase.NewOrderQueryUsecase(orderRepo)
	}

	// 6) GCS image resolver for the catalog (best-effort)
	var images fsout.ImageURLResolver
	if cfg.ImageBucket != "" {
		resolver := gcsout.NewImageResolverGCS(cfg.ImageBucket)
		if gcsClient, err := storage.NewClient(ctx, clientOpts...); err != nil {
			log.Printf("[di] WARN: storage.NewClient failed: %v (image refs served as stored)", err)
		} else {
			c.GCS = gcsClient
			if err := resolver.CheckBucket(ctx, gcsClient); err != nil {
				log.Printf("[di] WARN: %v", err)
			}
		}
		images = resolver
	}
	c.Catalog = fsout.NewCatalogRepositoryFS(c.Firestore, images)

	return c, nil
}

// RouterDeps exposes the wired handlers' dependencies to the HTTP layer.
func (c *Container) RouterDeps() httpin.RouterDeps {
	return httpin.RouterDeps{
		CartStore:    c.CartStore,
		CheckoutUC:   c.CheckoutUC,
		OrderUC:      c.OrderUC,
		Catalog:      c.Catalog,
		FirebaseAuth: c.FirebaseAuth,
	}
}

// Close drains the cart store's save queue and closes owned clients.
func (c *Container) Close() {
	if c == nil {
		return
	}
	if c.CartStore != nil {
		c.CartStore.Close()
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
	if c.Firestore != nil {
		_ = c.Firestore.Close()
	}
	if c.GCS != nil {
		_ = c.GCS.Close()
	}
	if c.SecretManager != nil {
		_ = c.SecretManager.Close()
	}
}

func (c *Container) openOrderDB(ctx context.Context) (*sql.DB, error) {
	cfg := c.Config

	password := cfg.DBPassword
	if cfg.DBPasswordSecret != "" {
		resolved, err := resolveSecret(ctx, c.SecretManager, cfg.FirestoreProjectID, cfg.DBPasswordSecret)
		if err != nil {
			return nil, fmt.Errorf("resolve db password: %w", err)
		}
		password = resolved
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, password, cfg.DBName)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	log.Printf("[di] connected to PostgreSQL")
	return db, nil
}

func (c *Container) buildMailer(ctx context.Context) usecase.Mailer {
	cfg := c.Config

	apiKey := cfg.SendGridAPIKey
	if cfg.SendGridAPIKeySecret != "" {
		resolved, err := resolveSecret(ctx, c.SecretManager, cfg.FirestoreProjectID, cfg.SendGridAPIKeySecret)
		if err != nil {
			log.Printf("[di] WARN: resolve sendgrid key: %v (confirmation mail disabled)", err)
			return nil
		}
		apiKey = resolved
	}
	if apiKey == "" || cfg.MailFrom == "" {
		log.Printf("[di] confirmation mail not configured (SENDGRID_API_KEY / MAIL_FROM)")
		return nil
	}
	return mailout.NewSendGridClient(apiKey)
}
