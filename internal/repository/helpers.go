package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/surrealdb/surrealdb.go/pkg/models"
)

// statementRows returns the rows produced by statement n of a query.
func statementRows(result []interface{}, n int) []interface{} {
	if n >= len(result) {
		return nil
	}
	if resp, ok := result[n].(map[string]interface{}); ok {
		if rows, ok := resp["result"].([]interface{}); ok {
			return rows
		}
	}
	return nil
}

// getString extracts a string value from a map
func getString(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// getTime extracts a time value from a map
func getTime(m map[string]interface{}, key string) time.Time {
	switch v := m[key].(type) {
	case time.Time:
		return v
	case models.CustomDateTime:
		return v.Time
	case *models.CustomDateTime:
		if v != nil {
			return v.Time
		}
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// getRecordIDs converts an array of record links into "table:key" strings.
func getRecordIDs(m map[string]interface{}, key string) []string {
	items, ok := m[key].([]interface{})
	if !ok {
		return []string{}
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if id := convertSurrealID(item); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// convertSurrealID renders a SurrealDB record id as "table:key".
func convertSurrealID(id interface{}) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	case models.RecordID:
		return fmt.Sprintf("%s:%v", v.Table, v.ID)
	case *models.RecordID:
		if v != nil {
			return fmt.Sprintf("%s:%v", v.Table, v.ID)
		}
		return ""
	case map[string]interface{}:
		// {"tb": "user", "id": "alice"} or {"tb": "user", "id": {"String": "alice"}}
		tb, _ := v["tb"].(string)
		idPart := extractIDValue(v["id"])
		if tb != "" && idPart != "" {
			return tb + ":" + idPart
		}
		return idPart
	}
	return fmt.Sprintf("%v", id)
}

// extractIDValue extracts the ID value which may be nested
func extractIDValue(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]interface{}:
		if s, ok := v["String"].(string); ok {
			return s
		}
	}
	return fmt.Sprintf("%v", val)
}

// recordKey strips the table prefix and any ⟨⟩ escaping from a record id.
func recordKey(id interface{}, table string) string {
	s := convertSurrealID(id)
	s = strings.TrimPrefix(s, table+":")
	s = strings.TrimPrefix(s, "⟨")
	s = strings.TrimSuffix(s, "⟩")
	return s
}

// parseRecordID splits "table:key" into a RecordID usable as a query
// variable.
func parseRecordID(s string) (models.RecordID, error) {
	table, key, ok := strings.Cut(s, ":")
	if !ok || table == "" || key == "" {
		return models.RecordID{}, fmt.Errorf("invalid record id %q", s)
	}
	return models.RecordID{Table: table, ID: key}, nil
}
