package postgres

import (
	"fmt"

	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/zatekoja/symptomatch/backend/migrations"
)

// RunMigrations applies the embedded schema migrations.
func (c *Client) RunMigrations() error {
	driver, err := migratepg.WithInstance(c.db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create postgres migration driver: %w", err)
	}
	return migrations.Up(driver, "postgres")
}
