// audit/model.go
package audit

import "time"

// AccessAttempt records one authorization check against a user, with the
// request metadata needed to investigate denied access later.
type AccessAttempt struct {
	Timestamp  time.Time `json:"timestamp"`
	UserID     string    `json:"user_id"`
	Permission string    `json:"permission"`
	Endpoint   string    `json:"endpoint"`
	Method     string    `json:"method"`
	IP         string    `json:"ip"`
	UserAgent  string    `json:"user_agent"`
	Granted    bool      `json:"granted"`
}
