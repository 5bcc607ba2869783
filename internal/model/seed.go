package model

// SeedCustomer is a demo row written by the seed command.
type SeedCustomer struct {
	Company       string `db:"company"`
	LastName      string `db:"last_name"`
	FirstName     string `db:"first_name"`
	EmailAddress  string `db:"email_address"`
	JobTitle      string `db:"job_title"`
	BusinessPhone string `db:"business_phone"`
	City          string `db:"city"`
	CountryRegion string `db:"country_region"`
}
