package transport

import (
	"encoding/json"
	"strings"

	"github.com/saadamjad-44/school-attendance-system/domain"
)

// ErrorBody is the backend's error payload. Detail is usually a string but
// request validation failures carry a list of {loc, msg, type} objects.
type ErrorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationIssue struct {
	Msg string `json:"msg"`
}

// DetailMessage extracts a human-readable message from an error response body.
func DetailMessage(body []byte) string {
	var payload ErrorBody
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.MsgUnreadableError
	}
	if len(payload.Detail) == 0 {
		return domain.MsgRequestFailed
	}

	var detail string
	if err := json.Unmarshal(payload.Detail, &detail); err == nil {
		if detail == "" {
			return domain.MsgRequestFailed
		}
		return detail
	}

	var issues []validationIssue
	if err := json.Unmarshal(payload.Detail, &issues); err == nil {
		msgs := make([]string, 0, len(issues))
		for _, issue := range issues {
			if issue.Msg != "" {
				msgs = append(msgs, issue.Msg)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return domain.MsgRequestFailed
}

// NewErrorBody builds an error payload with a plain detail string.
func NewErrorBody(detail string) map[string]string {
	return map[string]string{"detail": detail}
}
