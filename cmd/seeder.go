package cmd

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		if clearData {
			for _, table := range []string{"audit_entries", "contents", "co_managers", "owners"} {
				if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)

		ownerEmail := "amina@laala.app"
		var ownerID string
		err = db.QueryRow("SELECT id FROM owners WHERE email = $1", ownerEmail).Scan(&ownerID)
		if err != nil {
			ownerID = uuid.NewString()
			if _, err := db.Exec(
				"INSERT INTO owners (id, email, name, password_hash, created_at, updated_at) VALUES ($1, $2, $3, $4, now(), now())",
				ownerID, ownerEmail, "Amina", string(hash)); err != nil {
				log.Fatalf("failed to insert owner: %v", err)
			}
			fmt.Println("Seeded owner:", ownerEmail)
		} else {
			fmt.Println("owner already exists:", ownerEmail)
		}

		// A manage-tier co-manager with a granular content grant that widens
		// the tier to include delete on content.
		comanagerEmail := "karim@laala.app"
		var exists int
		if err := db.QueryRow("SELECT 1 FROM co_managers WHERE email = $1", comanagerEmail).Scan(&exists); err != nil {
			grants := `[{"resource":"content","actions":["create","read","update","delete"]}]`
			if _, err := db.Exec(
				`INSERT INTO co_managers
					(id, owner_id, email, password_hash, access_level, permissions, status, requires_password_change, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, 'manage', $5, 'active', true, now(), now())`,
				uuid.NewString(), ownerID, comanagerEmail, string(hash), grants); err != nil {
				log.Fatalf("failed to insert co-manager: %v", err)
			}
			fmt.Println("Seeded co-manager:", comanagerEmail, "(temporary password: password)")
		} else {
			fmt.Println("co-manager already exists:", comanagerEmail)
		}

		// A consult-tier co-manager, suspended, for exercising the denial paths.
		suspendedEmail := "lea@laala.app"
		if err := db.QueryRow("SELECT 1 FROM co_managers WHERE email = $1", suspendedEmail).Scan(&exists); err != nil {
			if _, err := db.Exec(
				`INSERT INTO co_managers
					(id, owner_id, email, password_hash, access_level, permissions, status, requires_password_change, created_at, updated_at)
				 VALUES ($1, $2, $3, $4, 'consult', '[]', 'suspended', false, now(), now())`,
				uuid.NewString(), ownerID, suspendedEmail, string(hash)); err != nil {
				log.Fatalf("failed to insert suspended co-manager: %v", err)
			}
			fmt.Println("Seeded suspended co-manager:", suspendedEmail)
		} else {
			fmt.Println("suspended co-manager already exists:", suspendedEmail)
		}

		fmt.Println("Seeding complete")
	},
}
