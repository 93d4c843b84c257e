package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
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

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlxDB.Close()

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"extracted_transactions", "statement_uploads", "employee_aliases", "employees", "operators"} {
				if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		employees := []struct {
			Name       string
			Email      string
			Department string
		}{
			{"JANE DOE", "jane.doe@corp.example", "Field Operations"},
			{"JOHN ROE", "john.roe@corp.example", "Field Operations"},
			{"WILLIAM BURT", "william.burt@corp.example", "Maintenance"},
			{"MARIA GARCIA", "maria.garcia@corp.example", "Logistics"},
			{"DAVID CHEN", "david.chen@corp.example", "Procurement"},
		}

		for _, e := range employees {
			var exists int
			row := db.Raw("SELECT 1 FROM employees WHERE name = ?", e.Name).Row()
			if err := row.Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec(
				"INSERT INTO employees (name, email, department, is_active, created_at, updated_at) VALUES (?, ?, ?, true, now(), now())",
				e.Name, e.Email, e.Department).Error; err != nil {
				log.Fatalf("failed to insert employee %s: %v", e.Name, err)
			}
			fmt.Println("Seeded employee:", e.Name)
		}

		// example curated alias: statement text runs the name together
		var williamID int64
		row := db.Raw("SELECT id FROM employees WHERE name = ?", "WILLIAM BURT").Row()
		if err := row.Scan(&williamID); err == nil {
			var exists int
			row = db.Raw("SELECT 1 FROM employee_aliases WHERE extracted_name = ?", "WILLIAMBURT").Row()
			if err := row.Scan(&exists); err != nil {
				if err := db.Exec(
					"INSERT INTO employee_aliases (extracted_name, employee_id, created_at) VALUES (?, ?, now())",
					"WILLIAMBURT", williamID).Error; err != nil {
					log.Fatalf("failed to insert alias: %v", err)
				}
				fmt.Println("Seeded alias: WILLIAMBURT ->", williamID)
			}
		}

		// curation UI operator account
		operatorEmail := "operator@corp.example"
		var exists int
		row = db.Raw("SELECT 1 FROM operators WHERE email = ?", operatorEmail).Row()
		if err := row.Scan(&exists); err != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
			if err != nil {
				log.Fatalf("failed to hash operator password: %v", err)
			}
			if err := db.Exec(
				"INSERT INTO operators (email, name, password_hash, is_active, created_at, updated_at) VALUES (?, ?, ?, true, now(), now())",
				operatorEmail, "Curation Operator", string(hash)).Error; err != nil {
				log.Fatalf("failed to insert operator: %v", err)
			}
			fmt.Println("Seeded operator:", operatorEmail)
		}

		fmt.Println("Seeding complete")
	},
}
