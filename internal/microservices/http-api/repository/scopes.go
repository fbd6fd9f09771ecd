package repository

import "strings"

// paginate turns a 1-based page into LIMIT/OFFSET
func paginate(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	return pageSize, (page - 1) * pageSize
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds a lower-cased LIKE pattern matching query as a literal substring.
// Use it with "LOWER(col) LIKE ? ESCAPE '\'". SQLite's LOWER only folds ASCII.
func ContainsPattern(query string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
}

// LikeClause is the LIKE operator with the escape character ContainsPattern uses
const LikeClause = " LIKE ? ESCAPE '\\'"
