package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// extractionPrompt is the fixed instruction sent with every receipt image.
// The model must answer with exactly one JSON object.
const extractionPrompt = `Analyze this receipt/bill image and extract all line items, subtotal, tax, tip, and venue name.

Return a JSON object with this exact structure:
{
    "venue": "Restaurant Name",
    "items": [
        {"name": "Item name", "price": 12.99},
        {"name": "Another item", "price": 8.50}
    ],
    "subtotal": 21.49,
    "tax": 1.87,
    "tip": null
}

Rules:
- Extract the restaurant/venue name if visible, otherwise use a short descriptor like "dinner" or "lunch"
- Extract each line item with its name and price
- Prices should be numbers (not strings), without currency symbols
- If subtotal, tax, or tip are not visible, use null
- Do not include subtotal, tax, or tip as line items
- Return ONLY the JSON object, no other text`

const maxResponseTokens = 1000

// OpenAIClient calls an OpenAI-compatible chat completions endpoint with
// image input.
type OpenAIClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

var _ Extractor = (*OpenAIClient)(nil)

// NewOpenAIClient creates a vision client. baseURL is the API root
// (e.g. "https://api.openai.com"); model names the vision-capable model.
func NewOpenAIClient(baseURL, apiKey, model string, timeout time.Duration) *OpenAIClient {
	return &OpenAIClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *imageURLPart `json:"image_url,omitempty"`
}

type imageURLPart struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Extract sends the receipt image to the model and parses the reply.
// The call blocks for at most the client timeout; it holds no locks, so
// slow extractions never stall unrelated requests.
func (c *OpenAIClient) Extract(ctx context.Context, imageURL string) (*Receipt, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: extractionPrompt},
					{Type: "image_url", ImageURL: &imageURLPart{URL: imageURL}},
				},
			},
		},
		MaxTokens: maxResponseTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling vision model: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision model returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty choices", ErrBadResponse)
	}

	return parseReceipt(parsed.Choices[0].Message.Content)
}
