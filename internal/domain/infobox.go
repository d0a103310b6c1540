package domain

import (
	"encoding/json"
	"strings"
)

// InfoBox is the normalized "render as callout" metadata a field may
// carry: whether to show the box and which visual style to use.
type InfoBox struct {
	Enabled bool
	Style   string
}

// infoBoxStyles are the recognized callout styles; anything else
// falls back to "info".
var infoBoxStyles = map[string]bool{
	"info": true, "warning": true, "success": true, "note": true,
}

// ParseInfoBox normalizes the loosely-typed info-box blob. Accepted
// shapes: a bare bool, a bare style string, a {enabled, style} map
// (legacy key "show" also recognized), or a JSON string of the map
// shape. Unparseable input degrades to a disabled box.
func ParseInfoBox(raw any) InfoBox {
	switch v := raw.(type) {
	case nil:
		return InfoBox{}
	case bool:
		return InfoBox{Enabled: v, Style: "info"}
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return InfoBox{}
		}
		if strings.HasPrefix(s, "{") {
			var m map[string]any
			if err := json.Unmarshal([]byte(s), &m); err != nil {
				return InfoBox{}
			}
			return ParseInfoBox(m)
		}
		return InfoBox{Enabled: true, Style: normalizeStyle(s)}
	case map[string]any:
		enabled, ok := v["enabled"].(bool)
		if !ok {
			enabled, _ = v["show"].(bool)
		}
		style, _ := v["style"].(string)
		if !enabled && style == "" {
			return InfoBox{}
		}
		return InfoBox{Enabled: enabled, Style: normalizeStyle(style)}
	default:
		return InfoBox{}
	}
}

func normalizeStyle(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if infoBoxStyles[s] {
		return s
	}
	return "info"
}
