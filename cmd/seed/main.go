// Command seed loads the legacy JSON catalog into MySQL and makes sure a
// default admin account exists. It is safe to run repeatedly: products are
// only imported into an empty catalog, and the admin is only created when
// no admin account exists yet.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"

	"techshop-backend/internal/config"
	"techshop-backend/internal/database"
	"techshop-backend/internal/jsonstore"
	"techshop-backend/internal/models"
	"techshop-backend/internal/repository"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	cfg := config.Load()
	ctx := context.Background()

	db, err := database.OpenDB(cfg.DSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	products := repository.NewMySQLProducts(db)
	users := repository.NewMySQLUsers(db)

	store := jsonstore.New(cfg.DataDir)

	if err := seedProducts(ctx, store, products); err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}
	if err := seedUsers(ctx, store, users); err != nil {
		log.Fatalf("Failed to seed users: %v", err)
	}
	if err := seedAdmin(ctx, users); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}
}

func seedProducts(ctx context.Context, store *jsonstore.Store, products repository.Products) error {
	existing, err := products.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Printf("Catalog already has %d products, skipping import.", len(existing))
		return nil
	}

	var seed []models.Product
	if err := store.Load("products", &seed); err != nil {
		// A missing seed file is fine; a corrupt one is not.
		if errors.Is(err, fs.ErrNotExist) {
			log.Println("No products.json, nothing to import.")
			return nil
		}
		return err
	}

	for i := range seed {
		if err := products.Create(ctx, &seed[i]); err != nil {
			return err
		}
	}
	log.Printf("Imported %d products.", len(seed))
	return nil
}

// legacyUser mirrors the rows in the old users.json. models.User never
// serializes its hash, so the import needs its own shape.
type legacyUser struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"password_hash"`
	IsAdmin      bool   `json:"is_admin"`
}

// seedUsers imports legacy user accounts. Rows whose email is already
// registered are skipped so the import can be re-run.
func seedUsers(ctx context.Context, store *jsonstore.Store, users repository.Users) error {
	var seed []legacyUser
	if err := store.Load("users", &seed); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	imported := 0
	for _, row := range seed {
		u := &models.User{
			Name:         row.Name,
			Email:        row.Email,
			Phone:        row.Phone,
			PasswordHash: row.PasswordHash,
			IsAdmin:      row.IsAdmin,
		}
		err := users.Create(ctx, u)
		if errors.Is(err, repository.ErrDuplicate) {
			continue
		}
		if err != nil {
			return err
		}
		imported++
	}
	log.Printf("Imported %d user accounts.", imported)
	return nil
}

func seedAdmin(ctx context.Context, users repository.Users) error {
	hasAdmin, err := users.HasAdmin(ctx)
	if err != nil {
		return err
	}
	if hasAdmin {
		log.Println("An admin account already exists, skipping.")
		return nil
	}

	email := envOr("ADMIN_EMAIL", "admin@techshop.local")
	rawPassword := envOr("ADMIN_PASSWORD", "admin12345")

	var password models.Password
	if err := password.Set(rawPassword); err != nil {
		return err
	}

	admin := &models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: password.Hash,
		IsAdmin:      true,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	log.Printf("Created default admin account %s.", email)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
