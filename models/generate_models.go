package models

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

/*
Column Mismatch Report Usage:

The report lists database columns that no field of the corresponding Go model maps to.
It runs after every migration in `generate-models` and standalone with
`generate-models --report-only`.

Example output:
	table=projects missing=[legacy_slug]
	table=technologies missing=[]
	total=1
*/

// All lists every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&Technology{},
		&Certificate{},
		&Project{},
		&ProjectTechnology{},
	}
}

// tableModels maps table name to model for the column report.
func tableModels() map[string]interface{} {
	return map[string]interface{}{
		Project{}.TableName():           Project{},
		Technology{}.TableName():        Technology{},
		Certificate{}.TableName():       Certificate{},
		ProjectTechnology{}.TableName(): ProjectTechnology{},
	}
}

// Migrate creates or updates the tables, including the project/technology join table.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&Project{}, "Technologies", &ProjectTechnology{}); err != nil {
		return fmt.Errorf("setting up projects_technologies join table: %w", err)
	}

	migrateDB := db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
		Logger:                 db.Logger.LogMode(logger.Info),
	})
	if err := migrateDB.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("migrating models: %w", err)
	}
	return nil
}

// GenerateModels migrates the schema, prints the column report and writes typed
// query helpers into outPath.
func GenerateModels(db *gorm.DB, outPath string) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}

	log.Info().Msg("starting database migration")
	if err := Migrate(db); err != nil {
		return err
	}
	log.Info().Msg("database migration completed")

	if _, err := GenerateColumnMismatchReport(db); err != nil {
		return err
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(
		Technology{},
		Certificate{},
		Project{},
		ProjectTechnology{},
	)
	g.Execute()

	log.Info().Str("outPath", outPath).Msg("model generation complete")
	return nil
}

// GenerateColumnMismatchReport returns, per table, the columns present in the
// database but not in the model. Tables that do not exist yet are skipped.
func GenerateColumnMismatchReport(db *gorm.DB) (map[string][]string, error) {
	report := make(map[string][]string)
	total := 0

	tables := make([]string, 0, len(tableModels()))
	for name := range tableModels() {
		tables = append(tables, name)
	}
	sort.Strings(tables)

	for _, tableName := range tables {
		dbColumns, err := getTableColumns(db, tableName)
		if err != nil {
			if strings.Contains(err.Error(), "does not exist") {
				log.Warn().Str("table", tableName).Msg("table does not exist yet")
				continue
			}
			return nil, err
		}

		modelFields, err := getModelFields(tableModels()[tableName])
		if err != nil {
			return nil, err
		}

		mismatches := findColumnMismatches(dbColumns, modelFields)
		report[tableName] = mismatches
		total += len(mismatches)
		log.Info().Str("table", tableName).Strs("missing", mismatches).Msg("column report")
	}

	log.Info().Int("total", total).Msg("column report summary")
	return report, nil
}

func getTableColumns(db *gorm.DB, tableName string) ([]string, error) {
	var columns []string
	query := `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_name = ?
		AND table_schema = CURRENT_SCHEMA()
		ORDER BY ordinal_position
	`
	if err := db.Raw(query, tableName).Scan(&columns).Error; err != nil {
		return nil, fmt.Errorf("error querying columns for table %s: %w", tableName, err)
	}

	if len(columns) == 0 {
		var tableExists bool
		tableQuery := `
			SELECT EXISTS (
				SELECT FROM information_schema.tables
				WHERE table_schema = CURRENT_SCHEMA()
				AND table_name = ?
			)
		`
		if err := db.Raw(tableQuery, tableName).Scan(&tableExists).Error; err != nil {
			return nil, fmt.Errorf("error checking if table %s exists: %w", tableName, err)
		}
		if !tableExists {
			return nil, fmt.Errorf("table %s does not exist", tableName)
		}
	}
	return columns, nil
}

// getModelFields resolves the column names gorm would use for model.
func getModelFields(model interface{}) ([]string, error) {
	s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		return nil, fmt.Errorf("parsing schema for %T: %w", model, err)
	}
	fields := make([]string, 0, len(s.DBNames))
	fields = append(fields, s.DBNames...)
	return fields, nil
}

func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool, len(modelFields))
	for _, field := range modelFields {
		modelFieldSet[field] = true
	}

	mismatches := []string{}
	for _, col := range dbColumns {
		if !modelFieldSet[col] {
			mismatches = append(mismatches, col)
		}
	}
	return mismatches
}
