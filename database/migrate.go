package database

import (
	"context"
	"fmt"
	"io"
	"sort"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-admin-backend/errs"
	"github.com/rpupo63/portfolio-admin-backend/models"
)

// tableModels maps each managed table to its model.
var tableModels = map[string]interface{}{
	"types":              &models.Type{},
	"technologies":       &models.Technology{},
	"projects":           &models.Project{},
	"project_technology": &models.ProjectTechnology{},
}

// Migrate creates or alters the schema for every model, then writes a
// column mismatch report to out.
func Migrate(ctx context.Context, db *gorm.DB, out io.Writer) error {
	migrateDB := db.WithContext(ctx).Session(&gorm.Session{
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	if err := migrateDB.SetupJoinTable(&models.Project{}, "Technologies", &models.ProjectTechnology{}); err != nil {
		return errs.NewDatabaseError("set up join table for", "project technologies", err)
	}

	fmt.Fprintln(out, "Migrating models...")
	if err := migrateDB.AutoMigrate(
		&models.Type{},
		&models.Technology{},
		&models.Project{},
		&models.ProjectTechnology{},
	); err != nil {
		return errs.NewDatabaseError("migrate", "schema", err)
	}
	fmt.Fprintln(out, "Database migration completed successfully!")

	return ColumnMismatchReport(ctx, db, out)
}

// ColumnMismatchReport lists database columns that no model field maps to.
func ColumnMismatchReport(ctx context.Context, db *gorm.DB, out io.Writer) error {
	fmt.Fprintln(out, "=== COLUMN MISMATCH REPORT ===")

	tables := make([]string, 0, len(tableModels))
	for table := range tableModels {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	totalMismatches := 0
	for _, table := range tables {
		fmt.Fprintf(out, "\n--- Table: %s ---\n", table)

		dbColumns, err := getTableColumns(ctx, db, table)
		if err != nil {
			return err
		}
		if len(dbColumns) == 0 {
			fmt.Fprintln(out, "Table does not exist yet (will be created during migration)")
			continue
		}

		modelColumns, err := getModelColumns(db, tableModels[table])
		if err != nil {
			return err
		}

		mismatches := findColumnMismatches(dbColumns, modelColumns)
		if len(mismatches) == 0 {
			fmt.Fprintln(out, "All columns are accounted for in the model.")
			continue
		}
		fmt.Fprintf(out, "Found %d columns not accounted for in model:\n", len(mismatches))
		for _, col := range mismatches {
			fmt.Fprintf(out, "  - %s\n", col)
		}
		totalMismatches += len(mismatches)
	}

	fmt.Fprintf(out, "\n=== SUMMARY ===\n")
	fmt.Fprintf(out, "Total mismatched columns across all tables: %d\n", totalMismatches)
	return nil
}

// getTableColumns retrieves column names from a database table
func getTableColumns(ctx context.Context, db *gorm.DB, tableName string) ([]string, error) {
	var columns []string
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_name = ?
		AND table_schema = CURRENT_SCHEMA()
		ORDER BY ordinal_position
	`
	if err := db.WithContext(ctx).Raw(query, tableName).Scan(&columns).Error; err != nil {
		return nil, errs.NewDatabaseError("query columns of", tableName, err)
	}
	return columns, nil
}

// getModelColumns returns the column names GORM derives for a model
func getModelColumns(db *gorm.DB, model interface{}) ([]string, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return nil, fmt.Errorf("parse model %T: %w", model, err)
	}
	return stmt.Schema.DBNames, nil
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(dbColumns, modelColumns []string) []string {
	modelColumnSet := make(map[string]bool, len(modelColumns))
	for _, col := range modelColumns {
		modelColumnSet[col] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !modelColumnSet[col] {
			mismatches = append(mismatches, col)
		}
	}
	return mismatches
}
