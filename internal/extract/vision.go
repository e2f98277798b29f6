package extract

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/fx-ratekeeper/internal/model"
	"github.com/sells-group/fx-ratekeeper/pkg/anthropic"
)

const visionPrompt = `You are reading one page of a bank's foreign exchange rate sheet.
Respond with a single JSON object and nothing else:
{
  "has_reference_rates": <true if this page contains the currency rate table marked "to be used as reference rates", else false>,
  "headers": [<the rate table column headers, left to right, starting with the currency column>],
  "date": "<the date printed on the page, exactly as shown>",
  "time": "<the time printed on the page, exactly as shown>",
  "forex_rates": [
    {"currency_code": "<3-letter code, e.g. USD>", "rates": [<the numeric rate values for that row, left to right>]}
  ]
}
If the page has no rate table, respond {"has_reference_rates": false}.`

// visionPage mirrors the JSON object the model is prompted to return.
type visionPage struct {
	HasReferenceRates bool     `json:"has_reference_rates"`
	Headers           []string `json:"headers"`
	Date              string   `json:"date"`
	Time              string   `json:"time"`
	ForexRates        []struct {
		CurrencyCode string        `json:"currency_code"`
		Rates        []json.Number `json:"rates"`
	} `json:"forex_rates"`
}

// visionAttempt rasterizes pages one at a time and asks the vision model to
// read the rate table. The first page whose reported headers match the known
// schema wins; later pages are never consulted.
func (p *Pipeline) visionAttempt(ctx context.Context, path string) (*model.Extraction, error) {
	if p.llm == nil {
		return nil, eris.New("extract: vision fallback required but no Anthropic API key is configured")
	}

	pages, err := p.pdf.PageCount(ctx, path)
	if err != nil {
		return nil, err
	}

	for n := 1; n <= pages; n++ {
		img, err := p.pdf.RenderPage(ctx, path, n)
		if err != nil {
			return nil, err
		}

		resp, err := p.llm.CreateMessage(ctx, anthropic.MessageRequest{
			Model:     p.opts.VisionModel,
			MaxTokens: p.opts.MaxTokens,
			Messages: []anthropic.Message{{
				Role: "user",
				Blocks: []anthropic.ContentBlock{
					{Type: "image", MediaType: "image/jpeg", Data: base64.StdEncoding.EncodeToString(img)},
					{Type: "text", Text: visionPrompt},
				},
			}},
		})
		if err != nil {
			return nil, eris.Wrapf(err, "extract: vision request for page %d of %s", n, path)
		}
		resp.Usage.LogCost(p.opts.VisionModel, "vision")

		page, err := parseVisionPage(resp)
		if err != nil {
			zap.L().Warn("vision response unusable, trying next page",
				zap.String("path", path),
				zap.Int("page", n),
				zap.Error(err),
			)
			continue
		}
		if !page.HasReferenceRates {
			continue
		}
		if len(page.Headers) < 2 || !slices.Equal(page.Headers[1:], model.RateColumns) {
			zap.L().Warn("vision headers do not match rate table schema, trying next page",
				zap.String("path", path),
				zap.Int("page", n),
				zap.Strings("headers", page.Headers),
			)
			continue
		}

		return p.acceptVisionPage(page)
	}

	return nil, &ExtractionExhaustedError{Pages: pages}
}

// acceptVisionPage converts an accepted page into an Extraction. Errors here
// are terminal: a page that claims to hold the table but cannot be normalized
// indicates a bad read, not a wrong page.
func (p *Pipeline) acceptVisionPage(page *visionPage) (*model.Extraction, error) {
	labeled := fmt.Sprintf("Date: %s\nTime: %s", page.Date, page.Time)
	ts, err := ResolveDateTime(labeled, nil)
	if err != nil {
		return nil, err
	}

	if len(page.ForexRates) == 0 {
		return nil, eris.New("extract: vision page accepted but carried no rate rows")
	}

	rates := make([]model.RateObservation, 0, len(page.ForexRates))
	for _, row := range page.ForexRates {
		values := make([]string, len(row.Rates))
		for i, v := range row.Rates {
			values[i] = v.String()
		}
		rates = append(rates, model.RateObservation{
			Currency: strings.ToUpper(strings.TrimSpace(row.CurrencyCode)),
			Rates:    values,
		})
	}

	return &model.Extraction{
		Timestamp: ts,
		Source:    model.SourceVision,
		Rates:     rates,
	}, nil
}

func parseVisionPage(resp *anthropic.MessageResponse) (*visionPage, error) {
	text := extractText(resp)
	if text == "" {
		return nil, eris.New("extract: empty vision response")
	}

	var page visionPage
	dec := json.NewDecoder(strings.NewReader(cleanJSON(text)))
	dec.UseNumber()
	if err := dec.Decode(&page); err != nil {
		return nil, eris.Wrap(err, "extract: unmarshal vision response")
	}
	return &page, nil
}

// extractText concatenates the text blocks of a response.
func extractText(resp *anthropic.MessageResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "" || b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String()
}

// cleanJSON strips markdown fences and extracts JSON object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
