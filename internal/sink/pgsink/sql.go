package pgsink

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
)

func ident(name string) string { return pgx.Identifier{name}.Sanitize() }

func columnList() string {
	names := make([]string, len(model.Columns))
	for i, c := range model.Columns {
		names[i] = ident(c.Name)
	}
	return strings.Join(names, ", ")
}

// schemaSQL returns the DDL statements for table. The first column is the
// primary key; saved_at orders rows for email lookups.
func schemaSQL(table string) []string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", ident(table))
	for i, c := range model.Columns {
		if i == 0 {
			fmt.Fprintf(&b, "\t%s TEXT PRIMARY KEY,\n", ident(c.Name))
			continue
		}
		fmt.Fprintf(&b, "\t%s TEXT NOT NULL DEFAULT '',\n", ident(c.Name))
	}
	b.WriteString("\tsaved_at TIMESTAMPTZ NOT NULL DEFAULT now()\n)")

	index := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (lower(%s), saved_at DESC)",
		ident(table+"_email_idx"), ident(table), ident("email"))
	return []string{b.String(), index}
}

// matchSQL selects the id of the row to update: same id first, then the
// latest row with the same email. $1 id, $2 lower-case email.
func matchSQL(table string) string {
	return fmt.Sprintf(
		"SELECT %[2]s FROM %[1]s WHERE %[2]s = $1 OR ($2 <> '' AND lower(%[3]s) = $2) "+
			"ORDER BY (%[2]s = $1) DESC, saved_at DESC LIMIT 1 FOR UPDATE",
		ident(table), ident("uid"), ident("email"))
}

func insertSQL(table string) string {
	params := make([]string, len(model.Columns))
	for i := range params {
		params[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", ident(table), columnList(), strings.Join(params, ", "))
}

// updateSQL rewrites every column of the row whose id is $1.
func updateSQL(table string) string {
	sets := make([]string, 0, len(model.Columns))
	for i, c := range model.Columns[1:] {
		sets = append(sets, fmt.Sprintf("%s = $%d", ident(c.Name), i+2))
	}
	sets = append(sets, "saved_at = now()")
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = $1", ident(table), strings.Join(sets, ", "), ident("uid"))
}

func findByEmailSQL(table string) string {
	return fmt.Sprintf("SELECT %s FROM %s WHERE lower(%s) = $1 ORDER BY saved_at DESC LIMIT 1",
		columnList(), ident(table), ident("email"))
}
