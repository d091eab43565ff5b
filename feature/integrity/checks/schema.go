package checks

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"catalog-sync/core/database"
	"catalog-sync/feature/catalog/models"

	"gorm.io/gorm"
)

// SchemaReport is the result of comparing the live schema with the catalog models.
type SchemaReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "error"
}

// expectedColumn is a column name and, when the model pins it, its type.
type expectedColumn struct {
	name string
	typ  string
}

// CheckSchema verifies every catalog table using the gorm models as the source of truth.
func CheckSchema(db *gorm.DB) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	expected, err := expectedSchema()
	if err != nil {
		return nil, err
	}

	report := &SchemaReport{
		Matched: true,
		Tables:  make(map[string]TableReport, len(expected)),
		Errors:  []string{},
	}

	tables := make([]string, 0, len(expected))
	for table := range expected {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	for _, table := range tables {
		actualCols, err := database.GetTableColumns(db, table)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", table, err))
			report.Matched = false
			continue
		}
		if len(actualCols) == 0 {
			report.Errors = append(report.Errors, fmt.Sprintf("Table %s does not exist", table))
			report.Matched = false
			continue
		}

		actual := make(map[string]database.ColumnInfo, len(actualCols))
		for _, col := range actualCols {
			actual[col.Field] = col
		}

		tbl := TableReport{MissingColumns: []string{}, TypeMismatches: []string{}, Status: "ok"}
		for _, col := range expected[table] {
			act, ok := actual[col.name]
			if !ok {
				tbl.MissingColumns = append(tbl.MissingColumns, col.name)
				tbl.Status = "error"
				continue
			}
			if col.typ != "" && !strings.Contains(act.Type, col.typ) {
				tbl.TypeMismatches = append(tbl.TypeMismatches,
					fmt.Sprintf("%s: expected %s, got %s", col.name, col.typ, act.Type))
				tbl.Status = "error"
			}
		}
		if tbl.Status != "ok" {
			report.Matched = false
		}
		report.Tables[table] = tbl
	}

	return report, nil
}

// expectedSchema reads column names and pinned types from the model gorm tags,
// plus the two key columns of every link table.
func expectedSchema() (map[string][]expectedColumn, error) {
	schema := make(map[string][]expectedColumn)

	for _, model := range models.All() {
		tabler, ok := model.(interface{ TableName() string })
		if !ok {
			return nil, fmt.Errorf("model %T does not implement TableName", model)
		}

		t := reflect.TypeOf(model)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}

		var cols []expectedColumn
		for i := 0; i < t.NumField(); i++ {
			tag := t.Field(i).Tag.Get("gorm")
			name := parseGormColumn(tag)
			if name == "" {
				// associations carry no column
				continue
			}
			cols = append(cols, expectedColumn{name: name, typ: strings.ToLower(parseGormType(tag))})
		}
		schema[tabler.TableName()] = cols
	}

	for _, rel := range models.Relations() {
		schema[rel.JoinTable] = []expectedColumn{{name: models.BookColumn}, {name: rel.Column}}
	}
	return schema, nil
}

func parseGormColumn(tag string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, "column:") {
			return strings.TrimPrefix(p, "column:")
		}
	}
	return ""
}

func parseGormType(tag string) string {
	for _, p := range strings.Split(tag, ";") {
		if strings.HasPrefix(p, "type:") {
			return strings.TrimPrefix(p, "type:")
		}
	}
	return ""
}
