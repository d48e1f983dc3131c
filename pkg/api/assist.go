package api

import (
	"context"
	"strings"

	pkgerrors "github.com/Bhupesh-S/SmartShop-AI/pkg/errors"
)

// ChatReply holds the assistant's answer in both renderings the backend may
// provide. Field presence varies per response; callers should go through
// Text() rather than poking at fields.
type ChatReply struct {
	HTML string `json:"response_html"`
	Raw  string `json:"response_raw"`
}

// Text resolves the display text with an explicit fallback order:
// rendered HTML first, then raw text.
func (r ChatReply) Text() string {
	if strings.TrimSpace(r.HTML) != "" {
		return r.HTML
	}
	return r.Raw
}

// Chat sends a single assistant query. The backend reports upstream model
// failures as a 200 with an error field, so that shape is mapped to a
// dependency error here.
func (c *Client) Chat(ctx context.Context, query string) (*ChatReply, error) {
	req := struct {
		Query string `json:"query"`
	}{Query: query}

	var resp struct {
		ChatReply
		Error string `json:"error"`
	}
	if err := c.postJSON(ctx, "/chatbot", req, &resp); err != nil {
		return nil, err
	}
	if strings.TrimSpace(resp.Error) != "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, resp.Error)
	}
	return &resp.ChatReply, nil
}

// SentimentResult is the verdict for one review text.
type SentimentResult struct {
	Sentiment string  `json:"sentiment"`
	Score     float64 `json:"score"`
}

// AnalyzeSentiment classifies a review as positive/neutral/negative.
func (c *Client) AnalyzeSentiment(ctx context.Context, review string) (*SentimentResult, error) {
	req := struct {
		Review string `json:"review"`
	}{Review: review}

	var resp SentimentResult
	if err := c.postJSON(ctx, "/reviews/sentiment", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TranslateReview translates a review into English.
func (c *Client) TranslateReview(ctx context.Context, reviewText, langCode string) (string, error) {
	if strings.TrimSpace(langCode) == "" {
		langCode = "auto"
	}
	req := struct {
		ReviewText string `json:"reviewText"`
		LangCode   string `json:"langCode"`
	}{ReviewText: reviewText, LangCode: langCode}

	var resp struct {
		Translated string `json:"translated"`
	}
	if err := c.postJSON(ctx, "/reviews/translate", req, &resp); err != nil {
		return "", err
	}
	return resp.Translated, nil
}

// LegitimacyResult is the fake-review verdict for one review text.
type LegitimacyResult struct {
	IsFake     bool    `json:"isFake"`
	Confidence float64 `json:"confidence"`
}

// CheckReviewLegitimacy asks the backend whether a review looks fabricated.
func (c *Client) CheckReviewLegitimacy(ctx context.Context, reviewText string) (*LegitimacyResult, error) {
	req := struct {
		ReviewText string `json:"reviewText"`
	}{ReviewText: reviewText}

	var resp LegitimacyResult
	if err := c.postJSON(ctx, "/reviews/check", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
