package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/chat2purchase/shopassist/internal/domain"
)

// MaxRows bounds every catalog query
const MaxRows = 50

var (
	fencePattern     = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
	literalPattern   = regexp.MustCompile(`'(?:[^']|'')*'`)
	forbiddenPattern = regexp.MustCompile(`(?i)\b(insert|update|delete|drop|create|alter|truncate|exec|execute|grant|revoke|copy|merge|call|vacuum|into|pg_sleep|lo_import|lo_export)\b`)
	relationPattern  = regexp.MustCompile(`(?i)\b(?:from|join)\s+([a-zA-Z_][a-zA-Z0-9_."]*)`)
	limitPattern     = regexp.MustCompile(`(?i)\blimit\s+(\d+)(\s+offset\s+\d+)?\s*$`)
	anyLimitPattern  = regexp.MustCompile(`(?i)\blimit\b`)
)

// CleanSQL strips markdown fences, a leading "SQL:" label and trailing
// semicolons from generated text.
func CleanSQL(raw string) string {
	sql := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(sql); m != nil {
		sql = strings.TrimSpace(m[1])
	}
	if len(sql) >= 4 && strings.EqualFold(sql[:4], "sql:") {
		sql = strings.TrimSpace(sql[4:])
	}
	sql = strings.TrimSpace(strings.TrimRight(sql, "; \t\n"))
	if sql == `""` || sql == "''" {
		return ""
	}
	return sql
}

// Guard accepts a single SELECT over the products table and returns it with
// a LIMIT no larger than MaxRows.
func Guard(sql string) (string, error) {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "", domain.ErrInvalidQuery
	}
	if !strings.EqualFold(fields[0], "select") {
		return "", fmt.Errorf("%w: not a SELECT statement", domain.ErrUnsafeSQL)
	}

	stripped := literalPattern.ReplaceAllString(sql, "''")
	if strings.Contains(stripped, ";") {
		return "", fmt.Errorf("%w: multiple statements", domain.ErrUnsafeSQL)
	}
	if strings.Contains(stripped, "--") || strings.Contains(stripped, "/*") {
		return "", fmt.Errorf("%w: comments are not allowed", domain.ErrUnsafeSQL)
	}
	if m := forbiddenPattern.FindString(stripped); m != "" {
		return "", fmt.Errorf("%w: forbidden keyword %q", domain.ErrUnsafeSQL, strings.ToUpper(m))
	}

	relations := relationPattern.FindAllStringSubmatch(stripped, -1)
	if len(relations) == 0 {
		return "", fmt.Errorf("%w: no relation", domain.ErrUnsafeSQL)
	}
	for _, rel := range relations {
		name := strings.ToLower(strings.ReplaceAll(rel[1], `"`, ""))
		if name != "products" && name != "public.products" {
			return "", fmt.Errorf("%w: relation %q is not allowed", domain.ErrUnsafeSQL, rel[1])
		}
	}

	if m := limitPattern.FindStringSubmatchIndex(sql); m != nil {
		n, err := strconv.Atoi(sql[m[2]:m[3]])
		if err != nil || n > MaxRows {
			sql = sql[:m[2]] + strconv.Itoa(MaxRows) + sql[m[3]:]
		}
		return sql, nil
	}
	if anyLimitPattern.MatchString(stripped) {
		return "", fmt.Errorf("%w: unsupported LIMIT clause", domain.ErrUnsafeSQL)
	}

	return sql + " LIMIT " + strconv.Itoa(MaxRows), nil
}
