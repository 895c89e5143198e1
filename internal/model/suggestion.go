package model

import "time"

// Suggestion is an AI-generated suggestion within a session. SegmentID
// is a non-owning back-reference to the transcript segment it answers.
// Append-only except the feedback fields.
type Suggestion struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	SessionID uint  `gorm:"not null;index" json:"session_id"`
	SegmentID *uint `gorm:"index" json:"segment_id"`

	Content        string `gorm:"type:text;not null" json:"content"`
	SuggestionType string `gorm:"size:50;not null" json:"suggestion_type"` // answer, question, tip, code

	LLMModel         string `gorm:"size:50" json:"llm_model"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	LatencyMs        int    `json:"latency_ms"`

	Accepted       bool `gorm:"default:false" json:"accepted"`
	Dismissed      bool `gorm:"default:false" json:"dismissed"`
	FeedbackRating *int `json:"feedback_rating"` // 1-5

	CreatedAt time.Time `json:"created_at"`
}
