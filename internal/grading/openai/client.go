package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/CryptoTuck/policy-pilot-sub000/internal/grading"
)

// GradePolicies implements grading.Grader using text-only chat/completions
// with a JSON-object response constrained by a schema message.
func (c *Client) GradePolicies(ctx context.Context, req grading.GradeRequest) (grading.GradeResult, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("grading.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"account_id", req.AccountID,
		"policies", len(req.Policies),
	)

	schema := grading.BuildGradeJSONSchema()
	sys := grading.BuildSystemPrompt(req)
	user := grading.BuildUserPrompt(req)

	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": sys},
			{"role": "user", "content": user + "\n\nReturn ONLY JSON that matches the provided schema."},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(schema)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, httpErr := c.post(ctx, endpoint, body)
	if httpErr != nil {
		c.log.Error("grading.http_error",
			"req_id", rid, "error", httpErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return grading.GradeResult{}, nil, httpErr
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("grading.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return grading.GradeResult{}, raw, fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("grading.no_choices",
			"req_id", rid, "raw", string(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return grading.GradeResult{}, raw, fmt.Errorf("no choices in openai response")
	}
	rawContent := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))

	// Validate strictly first.
	if err := grading.ValidateJSONAgainstSchema(schema, rawContent); err != nil {
		if !c.cfg.LenientSanitize {
			c.log.Error("grading.schema_validation_failed",
				"req_id", rid, "error", err, "content", string(rawContent),
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return grading.GradeResult{}, rawContent, fmt.Errorf("schema validation failed: %w", err)
		}
		// Lenient path: clamp/drop optional offenders and re-validate.
		cleaned, dropped, sErr := grading.SanitizeGradePayload(rawContent)
		if sErr != nil {
			c.log.Error("grading.sanitize_failed",
				"req_id", rid, "error", sErr,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return grading.GradeResult{}, rawContent, fmt.Errorf("sanitize failed: %w", sErr)
		}
		if vErr := grading.ValidateJSONAgainstSchema(schema, cleaned); vErr != nil {
			c.log.Error("grading.schema_validation_failed",
				"req_id", rid, "error", vErr, "content", string(rawContent),
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return grading.GradeResult{}, rawContent, fmt.Errorf("schema validation failed: %w", vErr)
		}
		c.log.Warn("grading.lenient_sanitize_applied",
			"req_id", rid, "dropped", dropped,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		rawContent = cleaned
	}

	var out grading.GradeResult
	if err := json.Unmarshal(rawContent, &out); err != nil {
		c.log.Error("grading.unmarshal_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return grading.GradeResult{}, rawContent, fmt.Errorf("unmarshal grades: %w", err)
	}

	c.log.Info("grading.ok",
		"req_id", rid,
		"account_id", req.AccountID,
		"graded_policies", len(out.Policies),
		"confidence", out.ModelConfidence,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, rawContent, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.log.Warn("openai response body close error", "error", err)
		}
	}(resp.Body)

	buf := new(bytes.Buffer)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = buf.ReadFrom(resp.Body)
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, buf.String())
	}
	_, _ = buf.ReadFrom(resp.Body)
	return buf.Bytes(), nil
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
