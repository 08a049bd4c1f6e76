package webhook

import (
	"encoding/json"
	"strings"
)

// The endpoint's response shape is not contractually fixed. These are the
// shapes seen in practice, tried in order; anything else falls through to
// the raw body so a received reply is never thrown away.
type responseShape struct {
	Output   string `json:"output"`
	Text     string `json:"text"`
	Message  string `json:"message"`
	Response string `json:"response"`
}

func (s responseShape) reply() string {
	for _, v := range []string{s.Output, s.Text, s.Message, s.Response} {
		if v != "" {
			return v
		}
	}
	return ""
}

// Normalize extracts a single display string from a loosely-typed webhook
// response body. It never fails: on a body with no recognizable content it
// returns the trimmed raw text, or an empty string for an empty body.
func Normalize(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var obj responseShape
	if err := json.Unmarshal(body, &obj); err == nil {
		if reply := obj.reply(); reply != "" {
			return reply
		}
	}

	var arr []responseShape
	if err := json.Unmarshal(body, &arr); err == nil && len(arr) > 0 {
		if reply := arr[0].reply(); reply != "" {
			return reply
		}
	}

	var bare string
	if err := json.Unmarshal(body, &bare); err == nil {
		return bare
	}

	return trimmed
}
