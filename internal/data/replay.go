package data

import (
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/ansel1/merry"
	"github.com/jmoiron/sqlx"
)

var ErrRejectedStatement = merry.New("statement rejected")

type ReplayWarning struct {
	Statement string
	Err       error
}

func (x ReplayWarning) String() string {
	return fmt.Sprintf("%s: %v", shorten(x.Statement, 60), x.Err)
}

type ReplayResult struct {
	Executed int
	Skipped  int
	Warnings []ReplayWarning
}

// ReplaySQL executes an externally supplied SQL script one statement at a
// time. Every statement is checked before execution: only CREATE TABLE,
// CREATE INDEX and INSERT INTO are accepted and MySQL specific syntax is
// rejected instead of being rewritten. A failing statement becomes a warning
// and the replay continues; "already exists" failures are counted as skipped.
// The returned error is only set when the script cannot be read.
func ReplaySQL(db *sqlx.DB, src io.Reader) (ReplayResult, error) {
	b, err := io.ReadAll(src)
	if err != nil {
		return ReplayResult{}, merry.Append(err, "read sql script")
	}
	var result ReplayResult
	for _, stmt := range SplitStatements(string(b)) {
		skip, err := checkStatement(stmt)
		if skip {
			result.Skipped++
			continue
		}
		if err != nil {
			result.Warnings = append(result.Warnings, ReplayWarning{stmt, err})
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "already exists") {
				result.Skipped++
				continue
			}
			result.Warnings = append(result.Warnings, ReplayWarning{stmt, err})
			continue
		}
		result.Executed++
	}
	return result, nil
}

// mysqlOnlySyntax lists token sequences that only MySQL accepts. A trailing *
// matches any token with that prefix.
var mysqlOnlySyntax = [][]string{
	{"AUTO_INCREMENT"},
	{"ENGINE", "="},
	{"DEFAULT", "CHARSET"},
	{"DEFAULT", "CHARACTER", "SET"},
	{"CHARSET", "="},
	{"COLLATE", "="},
	{"COLLATE", "UTF8*"},
	{"TINYINT", "UNSIGNED"},
	{"SMALLINT", "UNSIGNED"},
	{"MEDIUMINT", "UNSIGNED"},
	{"INT", "UNSIGNED"},
	{"INTEGER", "UNSIGNED"},
	{"BIGINT", "UNSIGNED"},
}

// mysqlSyntax returns the first MySQL only token sequence found in tokens.
func mysqlSyntax(tokens []string) (string, bool) {
	for i := range tokens {
		for _, seq := range mysqlOnlySyntax {
			if matchTokens(tokens[i:], seq) {
				return strings.Join(tokens[i:i+len(seq)], " "), true
			}
		}
	}
	return "", false
}

func matchTokens(tokens, seq []string) bool {
	if len(tokens) < len(seq) {
		return false
	}
	for i, x := range seq {
		if strings.HasSuffix(x, "*") {
			if !strings.HasPrefix(tokens[i], strings.TrimSuffix(x, "*")) {
				return false
			}
		} else if tokens[i] != x {
			return false
		}
	}
	return true
}

// checkStatement reports whether a statement is to be skipped silently, or the
// reason it is rejected.
func checkStatement(stmt string) (bool, error) {
	words := sqlWords(stripLiterals(stmt))
	if len(words) == 0 {
		return true, nil
	}
	head := words[0]
	if len(words) > 1 {
		head += " " + words[1]
	}
	if head == "CREATE DATABASE" || words[0] == "USE" {
		return true, nil
	}

	if syntax, ok := mysqlSyntax(sqlTokens(stripLiterals(stmt))); ok {
		return false, ErrRejectedStatement.Appendf("MySQL syntax %s is not supported", syntax)
	}

	switch head {
	case "CREATE TABLE", "INSERT INTO":
		table := targetTable(words)
		if !isKnownTable(table) {
			return false, ErrRejectedStatement.Appendf("%s: %q is not a table of the schema", strings.ToLower(head), table)
		}
		return false, nil
	case "CREATE INDEX", "CREATE UNIQUE":
		return false, nil
	}
	return false, ErrRejectedStatement.Appendf("only CREATE TABLE, CREATE INDEX and INSERT INTO are allowed, got %s", words[0])
}

// targetTable returns the table name following CREATE TABLE [IF NOT EXISTS] or
// INSERT INTO.
func targetTable(words []string) string {
	i := 2
	if len(words) > 4 && words[2] == "IF" && words[3] == "NOT" && words[4] == "EXISTS" {
		i = 5
	}
	if i >= len(words) {
		return ""
	}
	return strings.ToLower(words[i])
}

// sqlWords splits a statement into upper-cased identifiers and keywords;
// punctuation and quoting characters are separators.
func sqlWords(s string) []string {
	return strings.FieldsFunc(strings.ToUpper(s), func(r rune) bool {
		return !(r == '_' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
}

// sqlTokens is sqlWords with every "=" kept as a token of its own.
func sqlTokens(s string) []string {
	var xs []string
	for i, part := range strings.Split(s, "=") {
		if i > 0 {
			xs = append(xs, "=")
		}
		xs = append(xs, sqlWords(part)...)
	}
	return xs
}

// stripLiterals blanks out the content of single-quoted string literals so that
// values never look like keywords.
func stripLiterals(s string) string {
	var b strings.Builder
	inString := false
	for _, r := range s {
		if r == '\'' {
			inString = !inString
			b.WriteRune(r)
			continue
		}
		if inString {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SplitStatements splits a script on semicolons outside of quotes and
// comments. Comments are dropped, statements are trimmed, empty ones omitted.
func SplitStatements(script string) []string {
	var (
		xs  []string
		cur strings.Builder
		rs  = []rune(script)
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			xs = append(xs, s)
		}
		cur.Reset()
	}
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == '\'' || r == '"' || r == '`':
			cur.WriteRune(r)
			for i++; i < len(rs); i++ {
				cur.WriteRune(rs[i])
				if rs[i] == r {
					// doubled quote is an escaped quote
					if i+1 < len(rs) && rs[i+1] == r {
						i++
						cur.WriteRune(rs[i])
						continue
					}
					break
				}
			}
		case r == '-' && i+1 < len(rs) && rs[i+1] == '-':
			for i < len(rs) && rs[i] != '\n' {
				i++
			}
			cur.WriteRune('\n')
		case r == '/' && i+1 < len(rs) && rs[i+1] == '*':
			i += 2
			for i < len(rs) && !(rs[i] == '*' && i+1 < len(rs) && rs[i+1] == '/') {
				i++
			}
			i++
			cur.WriteRune(' ')
		case r == ';':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return xs
}

type SchemaDiff struct {
	Table   string
	Column  string
	Problem string
}

func (x SchemaDiff) String() string {
	if x.Column == "" {
		return x.Table + ": " + x.Problem
	}
	return x.Table + "." + x.Column + ": " + x.Problem
}

type columnInfo struct {
	CID     int            `db:"cid"`
	Name    string         `db:"name"`
	Type    string         `db:"type"`
	NotNull int            `db:"notnull"`
	Default sql.NullString `db:"dflt_value"`
	PK      int            `db:"pk"`
}

// Reconcile compares the live tables of db with the canonical table
// definitions: missing tables, missing or unexpected columns, and columns whose
// position, type, default, NOT NULL or primary key flag differ.
func Reconcile(db *sqlx.DB) ([]SchemaDiff, error) {
	canonical, err := openSqliteDBx(db.DriverName(), ":memory:")
	if err != nil {
		return nil, merry.Append(err, "open canonical schema")
	}
	defer func() {
		_ = canonical.Close()
	}()
	for _, t := range TableDefinitions() {
		if _, err := canonical.Exec(t.SQL); err != nil {
			return nil, merry.Appendf(err, "create canonical table %s", t.Name)
		}
	}

	var xs []SchemaDiff
	for _, t := range TableDefinitions() {
		want, err := tableInfo(canonical, t.Name)
		if err != nil {
			return nil, err
		}
		got, err := tableInfo(db, t.Name)
		if err != nil {
			return nil, err
		}
		xs = append(xs, diffColumns(t.Name, want, got)...)
	}
	return xs, nil
}

func tableInfo(db *sqlx.DB, table string) (xs []columnInfo, err error) {
	err = db.Select(&xs, `SELECT cid, name, type, "notnull", dflt_value, pk FROM pragma_table_info(?) ORDER BY cid`, table)
	if err != nil {
		return nil, merry.Appendf(err, "table info %s", table)
	}
	return
}

func diffColumns(table string, want, got []columnInfo) []SchemaDiff {
	if len(got) == 0 {
		return []SchemaDiff{{Table: table, Problem: "table is missing"}}
	}
	gotByName := make(map[string]columnInfo)
	for _, c := range got {
		gotByName[strings.ToLower(c.Name)] = c
	}
	var xs []SchemaDiff
	add := func(column, format string, args ...interface{}) {
		xs = append(xs, SchemaDiff{Table: table, Column: column, Problem: fmt.Sprintf(format, args...)})
	}
	for _, w := range want {
		g, ok := gotByName[strings.ToLower(w.Name)]
		if !ok {
			add(w.Name, "column is missing")
			continue
		}
		delete(gotByName, strings.ToLower(w.Name))
		if g.CID != w.CID {
			add(w.Name, "position %d, want %d", g.CID, w.CID)
		}
		if normalizeType(g.Type) != normalizeType(w.Type) {
			add(w.Name, "type %q, want %q", g.Type, w.Type)
		}
		if normalizeDefault(g.Default) != normalizeDefault(w.Default) {
			add(w.Name, "default %q, want %q", g.Default.String, w.Default.String)
		}
		if g.NotNull != w.NotNull {
			add(w.Name, "not null %v, want %v", g.NotNull != 0, w.NotNull != 0)
		}
		if g.PK != w.PK {
			add(w.Name, "primary key %v, want %v", g.PK != 0, w.PK != 0)
		}
	}
	for _, g := range got {
		if _, ok := gotByName[strings.ToLower(g.Name)]; ok {
			add(g.Name, "unexpected column")
		}
	}
	return xs
}

func normalizeType(s string) string {
	return strings.Join(strings.Fields(strings.ToUpper(strings.ReplaceAll(s, ",", ", "))), "")
}

func normalizeDefault(x sql.NullString) string {
	if !x.Valid {
		return ""
	}
	return strings.ToUpper(strings.Trim(strings.TrimSpace(x.String), "()"))
}

func shorten(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
