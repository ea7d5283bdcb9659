package intake

import "encoding/json"

// ResponseSchema is the JSON schema the model output must follow.
var ResponseSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "reply": {"type": "string"},
    "newTasks": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "code": {"type": "string"},
          "title": {"type": "string"},
          "category": {"type": "string"},
          "description": {"type": "string"},
          "squad": {"type": "string", "enum": ["UX/UI", "Backend", "Frontend", "Geral"]}
        },
        "required": ["code", "title", "category", "squad"]
      }
    },
    "timeline": {
      "type": "object",
      "properties": {
        "startDate": {"type": "string"},
        "endDate": {"type": "string"},
        "totalWeeks": {"type": "integer"},
        "currentWeek": {"type": "integer"},
        "progressMessage": {"type": "string"}
      }
    },
    "insights": {"type": "array", "items": {"type": "string"}}
  }
}`)

// wireResponse mirrors ResponseSchema. Every field is optional on the wire.
// Tasks stay raw so one malformed element cannot sink the whole batch.
type wireResponse struct {
	Reply    *string           `json:"reply"`
	NewTasks []json.RawMessage `json:"newTasks"`
	Timeline *wireTimeline     `json:"timeline"`
	Insights []*string         `json:"insights"`
}

type wireTask struct {
	Code        *string `json:"code"`
	Title       *string `json:"title"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Squad       *string `json:"squad"`
}

type wireTimeline struct {
	StartDate       *string  `json:"startDate"`
	EndDate         *string  `json:"endDate"`
	TotalWeeks      *float64 `json:"totalWeeks"`
	CurrentWeek     *float64 `json:"currentWeek"`
	ProgressMessage *string  `json:"progressMessage"`
}
