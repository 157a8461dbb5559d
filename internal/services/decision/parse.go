package decision

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/KirkDiggler/rpg-encounter/internal/entities"
)

var fencePattern = regexp.MustCompile("(?i)```json|```")

// extractJSON strips code fences and returns the first balanced object, or
// the stripped text when no complete object is found
func extractJSON(raw string) string {
	text := fencePattern.ReplaceAllString(raw, "")

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return strings.TrimSpace(text)
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}

	return strings.TrimSpace(text)
}

// parseDecision checks the reply shape before decoding it
func parseDecision(raw string) (*entities.Decision, bool) {
	candidate := extractJSON(raw)
	if candidate == "" || !gjson.Valid(candidate) {
		return nil, false
	}

	doc := gjson.Parse(candidate)
	if !doc.IsObject() {
		return nil, false
	}

	action := doc.Get("action")
	if !action.IsObject() {
		return nil, false
	}

	actionType := action.Get("type")
	if actionType.Type != gjson.String || !entities.ActionType(actionType.Str).Valid() {
		return nil, false
	}

	if target := action.Get("targetId"); target.Exists() && target.Type != gjson.Null && target.Type != gjson.String {
		return nil, false
	}

	if params := action.Get("params"); params.Exists() && !params.IsObject() {
		return nil, false
	}

	if explanation := doc.Get("explanation"); explanation.Exists() && explanation.Type != gjson.String {
		return nil, false
	}

	if confidence := doc.Get("confidence"); confidence.Exists() {
		if confidence.Type != gjson.Number || confidence.Num < 0 || confidence.Num > 1 {
			return nil, false
		}
	}

	var decision entities.Decision
	if err := json.Unmarshal([]byte(candidate), &decision); err != nil {
		return nil, false
	}
	return &decision, true
}
