package services

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/lalushbella/p2prental-backend/internal/config"
)

// fallbackCondition is substituted whenever the vision service cannot
// be reached or returns garbage. Pricing must never fail because this
// collaborator is unavailable.
var fallbackCondition = Condition{ConditionScore: 0.5, DepreciationFactor: 0.2}

// VisionClient asks the vision service to assess an item's condition
// from a photo.
type VisionClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewVisionClient creates a vision client from config.
func NewVisionClient(cfg *config.Config) *VisionClient {
	return &VisionClient{
		baseURL: cfg.VisionAPIURL,
		apiKey:  cfg.VisionAPIKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// AnalyzeImage returns the condition assessment for the image at the
// given URL. Best effort: any transport, status or parse failure is
// logged and replaced with the fixed fallback, never an error.
func (v *VisionClient) AnalyzeImage(imageURL string) Condition {
	if v.baseURL == "" {
		return fallbackCondition
	}

	payload, err := json.Marshal(map[string]string{"image_url": imageURL})
	if err != nil {
		return fallbackCondition
	}

	req, err := http.NewRequest(http.MethodPost, v.baseURL, bytes.NewReader(payload))
	if err != nil {
		log.Printf("vision request build failed: %v", err)
		return fallbackCondition
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+v.apiKey)

	resp, err := v.client.Do(req)
	if err != nil {
		log.Printf("vision service unreachable: %v", err)
		return fallbackCondition
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("vision service returned status %d", resp.StatusCode)
		return fallbackCondition
	}

	var cond Condition
	if err := json.NewDecoder(resp.Body).Decode(&cond); err != nil {
		log.Printf("vision response parse failed: %v", err)
		return fallbackCondition
	}

	if cond.ConditionScore < 0 || cond.ConditionScore > 1 ||
		cond.DepreciationFactor < 0 || cond.DepreciationFactor > 0.5 {
		log.Printf("vision response out of range: %+v", cond)
		return fallbackCondition
	}

	return cond
}
