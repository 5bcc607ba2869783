package cmd

import (
	"context"
	"fmt"

	"github.com/jmehdipour/custdir/internal/config"
	"github.com/jmehdipour/custdir/internal/db"
	"github.com/jmehdipour/custdir/internal/logger"
	"github.com/jmehdipour/custdir/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo customers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath, "")
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		if _, err := logger.Init(cfg.Log.Level, cfg.Log.Encoding); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer func() { _ = logger.Log.Sync() }()

		sqlDB, err := db.NewMySQLConnection(db.MySQLDSN(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName), mysqlOpts(cfg))
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer sqlDB.Close()

		cmd.Println(">> Seeding demo customers...")
		n, err := seedCustomers(cmd.Context(), sqlDB, demoCustomers)
		if err != nil {
			return err
		}
		cmd.Printf(">> Seed completed: %d customers\n", n)
		return nil
	},
}

var demoCustomers = []model.SeedCustomer{
	{Company: "Company A", LastName: "Bedecs", FirstName: "Anna", JobTitle: "Owner", BusinessPhone: "(123)555-0100", City: "Seattle", CountryRegion: "USA"},
	{Company: "Company B", LastName: "Gratacos Solsona", FirstName: "Antonio", JobTitle: "Owner", BusinessPhone: "(123)555-0100", City: "Boston", CountryRegion: "USA"},
	{Company: "Company C", LastName: "Axen", FirstName: "Thomas", JobTitle: "Purchasing Representative", BusinessPhone: "(123)555-0100", City: "Los Angeles", CountryRegion: "USA"},
	{Company: "Company D", LastName: "Lee", FirstName: "Christina", JobTitle: "Purchasing Manager", BusinessPhone: "(123)555-0100", City: "New York", CountryRegion: "USA"},
	{Company: "Company E", LastName: "O'Donnell", FirstName: "Martin", JobTitle: "Owner", BusinessPhone: "(123)555-0100", City: "Minneapolis", CountryRegion: "USA"},
}

// seedCustomers upserts the given rows keyed on the unique company name.
func seedCustomers(ctx context.Context, dbx *sqlx.DB, customers []model.SeedCustomer) (int, error) {
	const q = `
INSERT INTO customers
    (company, last_name, first_name, email_address, job_title, business_phone, city, country_region)
VALUES
    (:company, :last_name, :first_name, :email_address, :job_title, :business_phone, :city, :country_region)
ON DUPLICATE KEY UPDATE
    last_name      = VALUES(last_name),
    first_name     = VALUES(first_name),
    job_title      = VALUES(job_title),
    business_phone = VALUES(business_phone),
    city           = VALUES(city),
    country_region = VALUES(country_region)
`
	tx, err := dbx.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, c := range customers {
		if _, err := tx.NamedExecContext(ctx, q, c); err != nil {
			return 0, fmt.Errorf("insert customer %q: %w", c.Company, err)
		}
		logger.Log.Debug("customer upserted", zap.String("company", c.Company))
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit customers: %w", err)
	}
	logger.Log.Info("customers seeded", zap.Int("count", len(customers)))
	return len(customers), nil
}
