package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

func isPostgresDialect(dialect string) bool {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return true
	default:
		return false
	}
}

// textExprByDialect 将 JSON 列转换为可做 LIKE 的文本表达式。
func textExprByDialect(dialect, column string) string {
	if isPostgresDialect(dialect) {
		return fmt.Sprintf("CAST(%s AS TEXT)", column)
	}
	return column
}

// jsonArrayContainsCondition 构建“JSON 字符串数组包含某值”的条件（角色列表）。
func jsonArrayContainsCondition(db *gorm.DB, column string) string {
	return jsonArrayContainsConditionByDialect(dbDialectName(db), column)
}

func jsonArrayContainsConditionByDialect(dialect, column string) string {
	return fmt.Sprintf("%s LIKE ?", textExprByDialect(dialect, column))
}

// jsonArrayContainsArg 生成与 jsonArrayContainsCondition 配套的参数。
func jsonArrayContainsArg(value string) string {
	escaped := strings.NewReplacer("%", "", "_", "", "\"", "").Replace(value)
	return "%\"" + escaped + "\"%"
}

func likeOperatorByDialect(dialect string) string {
	if isPostgresDialect(dialect) {
		return "ILIKE"
	}
	return "LIKE"
}

// buildKeywordCondition 构建多列 LIKE 条件，并返回参数数量。
func buildKeywordCondition(db *gorm.DB, columns []string) (string, int) {
	operator := likeOperatorByDialect(dbDialectName(db))
	parts := make([]string, 0, len(columns))
	for _, column := range columns {
		trimmed := strings.TrimSpace(column)
		if trimmed == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s ?", trimmed, operator))
	}
	return strings.Join(parts, " OR "), len(parts)
}

// repeatLikeArgs 生成重复的 LIKE 参数列表。
func repeatLikeArgs(like string, count int) []interface{} {
	args := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		args = append(args, like)
	}
	return args
}
