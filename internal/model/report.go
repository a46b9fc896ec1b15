package model

import "time"

// Report is the record of one answered (or unanswered) question
type Report struct {
	RequestID string        `json:"request_id"`
	Utterance string        `json:"utterance"`
	Query     string        `json:"query"`            // bare query sent to the knowledge service
	Kind      string        `json:"kind"`             // answer, abstract, related, fallback or none
	Reason    string        `json:"reason,omitempty"` // why there is no answer
	Answer    string        `json:"answer,omitempty"`
	SourceURL string        `json:"source_url,omitempty"`
	Provider  string        `json:"provider,omitempty"` // LLM that gave a fallback answer
	AskedAt   time.Time     `json:"asked_at"`
	Duration  time.Duration `json:"duration_ns"`
}

// Answered reports whether the report carries a speakable answer
func (r *Report) Answered() bool {
	return r.Answer != ""
}
