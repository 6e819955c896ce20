package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var clearData bool

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

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm: %v", err)
		}

		if clearData {
			for _, table := range []string{"payroll_runs", "personnel", "users"} {
				if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		adminEmail := "admin@payroll.local"
		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)

		var exists int
		row := db.Raw("SELECT 1 FROM users WHERE email = ?", adminEmail).Row()
		if err := row.Scan(&exists); err == nil {
			fmt.Println("admin user already exists")
		} else {
			if err := db.Exec(
				"INSERT INTO users (full_name, email, username, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?, now())",
				"Payroll Admin", adminEmail, "admin", string(hash), "Finance Officer",
			).Error; err != nil {
				log.Fatalf("failed to insert admin user: %v", err)
			}
			fmt.Println("Seeded admin user:", adminEmail)
		}

		staff := []struct {
			StaffID    string
			Name       string
			Rank       string
			Department string
			Unit       string
			Region     string
			BasicPay   float64
			Allowance  float64
			Deductions float64
		}{
			{"PAY-0001", "Ade Balogun", "Officer", "Finance", "HQ", "South West", 250000, 45000, 12000},
			{"PAY-0002", "Chioma Eze", "Sergeant", "Logistics", "Depot A", "South East", 180000, 30000, 9500},
			{"PAY-0003", "Musa Ibrahim", "Corporal", "Signals", "Field Unit 2", "North Central", 150000, 25000, 8000},
		}

		for _, s := range staff {
			row := db.Raw("SELECT 1 FROM personnel WHERE staff_id = ?", s.StaffID).Row()
			if err := row.Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec(
				"INSERT INTO personnel (staff_id, name, rank, department, unit, region, basic_pay, allowance, deductions, active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, true, now(), now())",
				s.StaffID, s.Name, s.Rank, s.Department, s.Unit, s.Region, s.BasicPay, s.Allowance, s.Deductions,
			).Error; err != nil {
				log.Fatalf("failed to insert personnel %s: %v", s.StaffID, err)
			}
			fmt.Println("Seeded personnel:", s.StaffID, s.Name)
		}

		fmt.Println("Seeding complete")
	},
}
