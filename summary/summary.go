// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-2.0-flash"

var (
	ErrEmptyCustomerID = errors.New("customer id is required")
	ErrNoSummary       = errors.New("model returned no summary")
)

// Summarizer produces a short briefing on a customer for an RM.
type Summarizer interface {
	Summarize(ctx context.Context, customerID string) (string, error)
	Close() error
}

const systemPrompt = `You are an expert financial analyst supporting a bank relationship manager.
Answer in plain prose of at most two short paragraphs. Do not invent account numbers or balances.`

// Prompt is the instruction sent for a single customer.
func Prompt(customerID string) string {
	return fmt.Sprintf("Summarize the financial information and interaction history for customer ID %s. "+
		"Focus on key details relevant to a relationship manager starting a new conversation.", customerID)
}

// Gemini is a Summarizer backed by the Gemini API.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if modelName == "" {
		modelName = DefaultModel
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.3)
	model.SetMaxOutputTokens(1024)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Summarize(ctx context.Context, customerID string) (string, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return "", ErrEmptyCustomerID
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(Prompt(customerID)))
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}

	text := extractText(resp)
	if text == "" {
		return "", ErrNoSummary
	}
	return text, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	return strings.TrimSpace(b.String())
}
