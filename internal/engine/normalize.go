package engine

import (
	"encoding/json"

	"golang.org/x/exp/slices"

	"github.com/masa-finance/birdnet/api/types"
)

// placeholderCreatedAt is the fixed timestamp carried by synthesized
// placeholder statuses.
const placeholderCreatedAt = "Sun Jan 05 13:05:00 +0000 2020"

// normalize converts the raw body of a successful exchange into the
// caller-facing Outcome, applying the operation's post-processing rules.
// A payload that does not decode into the expected shape yields the fixed
// default error message, never a partial result.
func normalize(ex *exchange, body []byte) types.Outcome {
	op := ex.op
	out := types.Outcome{Key: correlationKey(ex)}

	switch op.Shape {
	case ShapeObject:
		obj, ok := decodeObject(body)
		if !ok {
			return types.Outcome{Error: defaultErrorMessage, Key: out.Key}
		}
		for field, forced := range op.Overrides {
			obj[field] = forced
		}
		out.Object = obj

	case ShapeList:
		var list []interface{}
		if op.ListField != "" {
			obj, ok := decodeObject(body)
			if !ok {
				return types.Outcome{Error: defaultErrorMessage, Key: out.Key}
			}
			list, ok = obj[op.ListField].([]interface{})
			if !ok {
				return types.Outcome{Error: defaultErrorMessage, Key: out.Key}
			}
		} else {
			if err := json.Unmarshal(body, &list); err != nil {
				return types.Outcome{Error: defaultErrorMessage, Key: out.Key}
			}
		}
		if op.DedupeReshares {
			list = dedupeReshares(list)
		}
		out.List = list
	}

	if op.Timeline {
		out.InitialPage = ex.args[op.CursorParam] == ""
	}
	return out
}

func decodeObject(body []byte) (map[string]interface{}, bool) {
	var obj map[string]interface{}
	if err := json.Unmarshal(body, &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// dedupeReshares collapses reshares of the same underlying status into the
// first entry encountered; order of first appearance is preserved.
func dedupeReshares(statuses []interface{}) []interface{} {
	seen := make([]string, 0, len(statuses))
	result := make([]interface{}, 0, len(statuses))
	for _, entry := range statuses {
		status, ok := entry.(map[string]interface{})
		if !ok {
			result = append(result, entry)
			continue
		}
		id := underlyingStatusID(status)
		if slices.Contains(seen, id) {
			continue
		}
		seen = append(seen, id)
		result = append(result, entry)
	}
	return result
}

// underlyingStatusID resolves a status to the identity used for
// de-duplication: the reshared original when present, the status itself
// otherwise.
func underlyingStatusID(status map[string]interface{}) string {
	if reshared, ok := status["retweeted_status"].(map[string]interface{}); ok {
		if id, ok := reshared["id_str"].(string); ok {
			return id
		}
	}
	id, _ := status["id_str"].(string)
	return id
}

// placeholderStatus synthesizes a minimal well-formed status standing in
// for one that could not be retrieved. Every field a renderer touches is
// present with an empty or false default, so no caller needs a nil check.
func placeholderStatus(id, message string) map[string]interface{} {
	return map[string]interface{}{
		"placeholder": true,
		"user": map[string]interface{}{
			"name":                    "",
			"verified":                false,
			"protected":               false,
			"profile_image_url_https": "",
		},
		"source":    "birdnet",
		"retweeted": false,
		"favorited": false,
		"entities": map[string]interface{}{
			"hashtags":      []interface{}{},
			"symbols":       []interface{}{},
			"urls":          []interface{}{},
			"user_mentions": []interface{}{},
		},
		"created_at": placeholderCreatedAt,
		"id_str":     id,
		"full_text":  message,
	}
}
