package ai

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kaptinlin/jsonrepair"
)

// maxBodyChars bounds the email body prefix sent to the provider, to bound
// request size and cost.
const maxBodyChars = 3000

// buildPrompt renders the fixed instruction template. The JSON schema is the
// real contract with the model; parseExtraction enforces it on the way back.
func buildPrompt(subject, body string) string {
	if len(body) > maxBodyChars {
		// Cut on a rune boundary so the prompt stays valid UTF-8.
		cut := maxBodyChars
		for cut > 0 && !utf8.RuneStart(body[cut]) {
			cut--
		}
		body = body[:cut]
	}
	return fmt.Sprintf(`You are an assistant that decides whether an email describes a calendar event or deadline.

Respond with STRICT JSON only, no prose, matching exactly this schema:
{"is_event": bool, "title": string, "summary": string, "start_time": "ISO-8601 with timezone offset", "end_time": "ISO-8601 with timezone offset or empty", "all_day": bool, "location": string, "confidence": number between 0 and 1}

If the email does not describe an event, return {"is_event": false}.
Do not invent a start_time that is not supported by the email text.

SUBJECT: %s

BODY:
%s

JSON:`, subject, body)
}

// parseExtraction turns raw model output into a validated EventExtraction.
// Returns ErrUnavailable for anything that is not a usable event: invalid
// JSON (even after repair), is_event=false, or a missing/unparseable
// start_time marker is left to the caller via Start().
func parseExtraction(raw string) (*EventExtraction, error) {
	text := strings.TrimSpace(raw)

	// Clean up markdown code blocks if present
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	text = strings.TrimSpace(text)

	// Slice to the outermost object; models like to add commentary around it.
	jsonStart := strings.Index(text, "{")
	jsonEnd := strings.LastIndex(text, "}")
	if jsonStart == -1 || jsonEnd <= jsonStart {
		return nil, ErrUnavailable
	}
	text = text[jsonStart : jsonEnd+1]

	var extraction EventExtraction
	if err := json.Unmarshal([]byte(text), &extraction); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(text)
		if repairErr != nil {
			return nil, ErrUnavailable
		}
		if err := json.Unmarshal([]byte(repaired), &extraction); err != nil {
			return nil, ErrUnavailable
		}
	}

	if !extraction.IsEvent || extraction.StartTime == "" {
		return nil, ErrUnavailable
	}
	return &extraction, nil
}
