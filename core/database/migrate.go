package database

import (
	"fmt"

	"gorm.io/gorm"
)

// BinaryCollation compares text byte-wise on MySQL, so natural keys that only
// differ in case or accents ("Emile" and "Émile") stay distinct rows.
const BinaryCollation = "utf8mb4_bin"

const mysqlTableOptions = "DEFAULT CHARSET=utf8mb4 COLLATE=" + BinaryCollation

// Migrate runs AutoMigrate for models. On MySQL new tables are created with
// BinaryCollation and existing tables whose text columns use another
// collation are converted.
func Migrate(db *gorm.DB, models ...any) error {
	if db.Dialector.Name() != DriverMySQL {
		return db.AutoMigrate(models...)
	}

	if err := binaryTables(db).AutoMigrate(models...); err != nil {
		return err
	}

	tables := make([]string, 0, len(models))
	for _, m := range models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			return fmt.Errorf("failed to parse model %T: %w", m, err)
		}
		tables = append(tables, stmt.Schema.Table)
	}
	return ensureCollation(db, tables)
}

func binaryTables(db *gorm.DB) *gorm.DB {
	return db.Set("gorm:table_options", mysqlTableOptions)
}

// ensureCollation converts the given tables that still hold text columns on
// a collation other than BinaryCollation.
func ensureCollation(db *gorm.DB, tables []string) error {
	var stale []string
	err := db.Raw(
		"SELECT DISTINCT TABLE_NAME FROM information_schema.COLUMNS "+
			"WHERE TABLE_SCHEMA = DATABASE() AND COLLATION_NAME IS NOT NULL AND COLLATION_NAME <> ?",
		BinaryCollation,
	).Scan(&stale).Error
	if err != nil {
		return fmt.Errorf("failed to inspect column collations: %w", err)
	}

	wanted := make(map[string]struct{}, len(tables))
	for _, t := range tables {
		wanted[t] = struct{}{}
	}

	for _, table := range stale {
		if _, ok := wanted[table]; !ok {
			continue
		}
		sql := fmt.Sprintf("ALTER TABLE `%s` CONVERT TO CHARACTER SET utf8mb4 COLLATE %s", table, BinaryCollation)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to convert %s to %s: %w", table, BinaryCollation, err)
		}
	}
	return nil
}
