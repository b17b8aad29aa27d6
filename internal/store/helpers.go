package store

import (
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ============================================================================
// Record Helpers
// ============================================================================

func getStringFromRecord(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

func getInt64FromRecord(record *neo4j.Record, key string) int64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0
	}
	if i, ok := val.(int64); ok {
		return i
	}
	return 0
}

func getTimeFromRecord(record *neo4j.Record, key string) time.Time {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return time.Time{}
	}
	// Neo4j datetime values come back as time.Time
	if t, ok := val.(time.Time); ok {
		return t
	}
	return time.Time{}
}

func getStringFromMap(m map[string]interface{}, key string) string {
	val, ok := m[key]
	if !ok || val == nil {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

// contactFromRecord builds a Contact from aliased record columns,
// assembling the nested address from the flat street/city fields.
func contactFromRecord(record *neo4j.Record) Contact {
	return Contact{
		ID:    getStringFromRecord(record, "id"),
		Name:  getStringFromRecord(record, "name"),
		Phone: getStringFromRecord(record, "phone"),
		Address: Address{
			Street: getStringFromRecord(record, "street"),
			City:   getStringFromRecord(record, "city"),
		},
		CreatedAt: getTimeFromRecord(record, "created_at"),
	}
}

// contactFromMap builds a Contact from a Cypher map projection.
func contactFromMap(m map[string]interface{}) Contact {
	return Contact{
		ID:    getStringFromMap(m, "id"),
		Name:  getStringFromMap(m, "name"),
		Phone: getStringFromMap(m, "phone"),
		Address: Address{
			Street: getStringFromMap(m, "street"),
			City:   getStringFromMap(m, "city"),
		},
	}
}

// friendsFromRecord parses an ordered list of contact map projections.
func friendsFromRecord(record *neo4j.Record, key string) []Contact {
	friends := []Contact{}
	val, ok := record.Get(key)
	if !ok || val == nil {
		return friends
	}
	list, ok := val.([]interface{})
	if !ok {
		return friends
	}
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		// collect() over an OPTIONAL MATCH yields one all-null entry
		// for accounts with no friends
		if getStringFromMap(m, "id") == "" {
			continue
		}
		friends = append(friends, contactFromMap(m))
	}
	return friends
}
