package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ccsafarmai/farmai/internal/logging"
	"github.com/ccsafarmai/farmai/internal/server/models"
	"github.com/ccsafarmai/farmai/internal/server/repositories/repomanager"
)

type AssistantInput struct {
	Prompt   string `json:"prompt" validate:"required"`
	Language string `json:"language"`
}

type FarmInput struct {
	FarmSize       string `json:"farmSize" validate:"required"`
	SoilType       string `json:"soilType" validate:"required"`
	Humidity       string `json:"humidity" validate:"required"`
	Moisture       string `json:"moisture" validate:"required"`
	Temperature    string `json:"temperature" validate:"required"`
	Location       string `json:"location" validate:"required"`
	AdditionalInfo string `json:"additionalInfo,omitempty"`
}

type SoilInput struct {
	SoilType       string `json:"soilType" validate:"required"`
	PH             string `json:"ph" validate:"required"`
	OrganicMatter  string `json:"organicMatter" validate:"required"`
	Nitrogen       string `json:"nitrogen" validate:"required"`
	Phosphorus     string `json:"phosphorus" validate:"required"`
	Potassium      string `json:"potassium" validate:"required"`
	Location       string `json:"location" validate:"required"`
	AdditionalInfo string `json:"additionalInfo,omitempty"`
}

type CropInput struct {
	ImageDescription string `json:"imageDescription" validate:"required"`
}

// AdvisorService runs the AI actions: it reserves a usage, asks the
// generator, and records the exchange.
type AdvisorService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	usage       *UsageService
	generator   Generator
	log         logging.Logger
}

func NewAdvisorService(db *sql.DB, m repomanager.RepositoryManager, usage *UsageService, generator Generator, log logging.Logger) *AdvisorService {
	return &AdvisorService{db: db, repomanager: m, usage: usage, generator: generator, log: log}
}

// Assistant answers a free-form farming question.
func (s *AdvisorService) Assistant(ctx context.Context, userID string, in AssistantInput) (string, error) {
	if err := validateInput(in); err != nil {
		return "", err
	}
	return s.run(ctx, userID, models.PromptAssistant, assistantSystemPrompt(in.Language), in.Prompt, in.Prompt)
}

// Farm analyses farm conditions.
func (s *AdvisorService) Farm(ctx context.Context, userID string, in FarmInput) (string, error) {
	if err := validateInput(in); err != nil {
		return "", err
	}
	prompt, err := render(farmTemplate, in)
	if err != nil {
		return "", fmt.Errorf("error rendering prompt: %w", err)
	}
	stored, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("error encoding prompt: %w", err)
	}
	return s.run(ctx, userID, models.PromptFarmAnalyzer, farmSystem, prompt, string(stored))
}

// Soil analyses a soil sample.
func (s *AdvisorService) Soil(ctx context.Context, userID string, in SoilInput) (string, error) {
	if err := validateInput(in); err != nil {
		return "", err
	}
	prompt, err := render(soilTemplate, in)
	if err != nil {
		return "", fmt.Errorf("error rendering prompt: %w", err)
	}
	stored, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("error encoding prompt: %w", err)
	}
	return s.run(ctx, userID, models.PromptSoilAnalyzer, soilSystem, prompt, string(stored))
}

// Crop describes a crop from a textual image description.
func (s *AdvisorService) Crop(ctx context.Context, userID string, in CropInput) (string, error) {
	if err := validateInput(in); err != nil {
		return "", err
	}
	prompt, err := render(cropTemplate, in.ImageDescription)
	if err != nil {
		return "", fmt.Errorf("error rendering prompt: %w", err)
	}
	return s.run(ctx, userID, models.PromptCropAnalyzer, cropSystem, prompt, in.ImageDescription)
}

func (s *AdvisorService) run(ctx context.Context, userID, kind, system, prompt, stored string) (string, error) {
	if err := s.usage.Reserve(ctx, userID); err != nil {
		return "", err
	}

	text, err := s.generator.Generate(ctx, system, prompt)
	if err != nil {
		s.release(ctx, userID)
		return "", fmt.Errorf("error generating response: %w", err)
	}

	_, err = s.repomanager.Prompts(s.db).Create(ctx, &models.Prompt{
		UserID:   userID,
		Type:     kind,
		Prompt:   stored,
		Response: text,
	})
	if err != nil {
		s.release(ctx, userID)
		return "", fmt.Errorf("error saving prompt: %w", err)
	}

	return text, nil
}

func (s *AdvisorService) release(ctx context.Context, userID string) {
	// the request context may already be done
	if err := s.usage.Release(context.WithoutCancel(ctx), userID); err != nil {
		s.log.Error(ctx, "failed to release usage reservation", "user_id", userID, "error", err)
	}
}
