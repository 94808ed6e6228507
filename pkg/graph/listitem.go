package graph

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// listItem is the generic shape of a SharePoint list item as Graph returns
// it: an id plus a fields object keyed by the configured column names.
type listItem struct {
	ID     string                 `json:"id"`
	Fields map[string]interface{} `json:"fields"`
}

func (li listItem) fieldString(name string) string {
	if li.Fields == nil {
		return ""
	}
	switch v := li.Fields[name].(type) {
	case string:
		return v
	case bool:
		return fmt.Sprintf("%t", v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func (li listItem) fieldBool(name string) bool {
	if li.Fields == nil {
		return false
	}
	switch v := li.Fields[name].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true") || strings.EqualFold(v, "yes")
	default:
		return false
	}
}

func (li listItem) fieldTime(name string) time.Time {
	raw := li.fieldString(name)
	if raw == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

// fieldLookupIDs reads a multi-lookup column, which Graph serializes as an
// array of {LookupId, LookupValue} objects.
func (li listItem) fieldLookupIDs(name string) []string {
	if li.Fields == nil {
		return nil
	}
	entries, ok := li.Fields[name].([]interface{})
	if !ok {
		return nil
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		obj, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		switch v := obj["LookupId"].(type) {
		case string:
			ids = append(ids, v)
		case float64:
			ids = append(ids, fmt.Sprintf("%.0f", v))
		}
	}
	return ids
}

func decodeListItem(raw map[string]interface{}) listItem {
	item := listItem{}
	if id, ok := raw["id"].(string); ok {
		item.ID = id
	} else if id, ok := raw["id"].(float64); ok {
		item.ID = fmt.Sprintf("%.0f", id)
	}
	if fields, ok := raw["fields"].(map[string]interface{}); ok {
		item.Fields = fields
	}
	return item
}

func decodeListItems(result map[string]interface{}) []listItem {
	if result == nil {
		return nil
	}
	values, ok := result["value"].([]interface{})
	if !ok {
		return nil
	}

	items := make([]listItem, 0, len(values))
	for _, value := range values {
		raw, ok := value.(map[string]interface{})
		if !ok {
			continue
		}
		items = append(items, decodeListItem(raw))
	}
	return items
}
