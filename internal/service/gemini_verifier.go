package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"schoolfit/internal/models"
)

const verificationPrompt = `You are a school PE teacher checking a student's exercise form from a photo.
The student says this is: %s.

Reply with JSON only, in this shape:
{"verdict": "valid" | "invalid" | "unknown", "feedback": "<one or two sentences for the student>", "confidence": <0-100>}

Use "valid" when the photo clearly shows the exercise performed with acceptable form,
"invalid" when it shows the exercise with poor form or a different activity, and
"unknown" when the photo is unclear.`

// GeminiVerifier checks exercise form with a Gemini vision model
type GeminiVerifier struct {
	client *genai.Client
	model  string
	debug  bool
}

// NewGeminiVerifier creates a verifier. It returns nil when apiKey is empty.
func NewGeminiVerifier(ctx context.Context, apiKey, model string, debug bool) (*GeminiVerifier, error) {
	if apiKey == "" {
		log.Println("Form verification disabled: GEMINI_API_KEY not configured")
		return nil, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	log.Printf("Form verification enabled: model=%s", model)
	return &GeminiVerifier{client: client, model: model, debug: debug}, nil
}

// Verify sends the image and exercise type to the model and parses its verdict
func (v *GeminiVerifier) Verify(ctx context.Context, image []byte, format, exerciseType string) (Verification, error) {
	model := v.client.GenerativeModel(v.model)
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.2)
	model.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockLowAndAbove},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockLowAndAbove},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockLowAndAbove},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockLowAndAbove},
	}

	prompt := fmt.Sprintf(verificationPrompt, exerciseType)
	resp, err := model.GenerateContent(ctx, genai.ImageData(format, image), genai.Text(prompt))
	if err != nil {
		return Verification{}, fmt.Errorf("failed to generate verdict: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return Verification{}, errors.New("no response from model")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	if v.debug {
		log.Printf("[DEBUG] Gemini verdict for %s: %s", exerciseType, text.String())
	}
	return parseVerification(text.String())
}

// Close releases the client
func (v *GeminiVerifier) Close() error {
	return v.client.Close()
}

// parseVerification decodes the model's JSON reply. Models sometimes wrap the
// JSON in a markdown fence.
func parseVerification(text string) (Verification, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var reply struct {
		Verdict    string  `json:"verdict"`
		Feedback   string  `json:"feedback"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &reply); err != nil {
		return Verification{}, fmt.Errorf("failed to parse verdict: %w", err)
	}
	return normalizeVerification(Verification{
		Verdict:    models.Verdict(reply.Verdict),
		Feedback:   strings.TrimSpace(reply.Feedback),
		Confidence: int(round(reply.Confidence, 0)),
	}), nil
}
