package models

import "time"

// Prompt types.
const (
	PromptAssistant    = "ASSISTANT"
	PromptFarmAnalyzer = "FARM_ANALYZER"
	PromptCropAnalyzer = "CROP_ANALYZER"
	PromptSoilAnalyzer = "SOIL_ANALYZER"
)

// Prompt is an immutable record of one AI exchange.
type Prompt struct {
	ID        string
	UserID    string
	Type      string
	Prompt    string
	Response  string
	CreatedAt time.Time
}
