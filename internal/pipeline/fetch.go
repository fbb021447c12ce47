package pipeline

import (
	"context"
	"fmt"
	"net/http"
)

// ListFilePairs fetches the deposition/summary pairs the backend knows,
// grouped by case on the caller's side.
func (c *Client) ListFilePairs(ctx context.Context) ([]FilePair, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/file-pairs", nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Status string     `json:"status"`
		Pairs  []FilePair `json:"pairs"`
	}
	if err := c.doJSON(req, &result); err != nil {
		return nil, err
	}
	if result.Status != "success" {
		return nil, fmt.Errorf("file-pairs returned status %q", result.Status)
	}
	return result.Pairs, nil
}

// ListDepositions fetches the standalone depositions available for
// nugget review.
func (c *Client) ListDepositions(ctx context.Context) ([]Deposition, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/depositions", nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Status      string       `json:"status"`
		Depositions []Deposition `json:"depositions"`
	}
	if err := c.doJSON(req, &result); err != nil {
		return nil, err
	}
	if result.Status != "success" {
		return nil, fmt.Errorf("depositions returned status %q", result.Status)
	}
	return result.Depositions, nil
}

// ProcessPair asks the backend to process one deposition/summary pair and
// returns the citation-tagged result payload.
func (c *Client) ProcessPair(ctx context.Context, pair FilePair) (*ResultPayload, error) {
	body, err := marshalBody(map[string]string{
		"case_name":           pair.CaseName,
		"deposition_filename": pair.Deposition,
		"summary_filename":    pair.Summary,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/process-pair", body)
	if err != nil {
		return nil, err
	}

	var result ResultPayload
	if err := c.doJSON(req, &result); err != nil {
		return nil, err
	}
	if result.Status != "success" {
		return nil, fmt.Errorf("process-pair returned status %q", result.Status)
	}
	return &result, nil
}

// ProcessDeposition asks the backend for the nuggets of one standalone
// deposition.
func (c *Client) ProcessDeposition(ctx context.Context, depo Deposition) (*NuggetPayload, error) {
	body, err := marshalBody(map[string]string{
		"case_name":           depo.CaseName,
		"deposition_filename": depo.Name,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/process-deposition", body)
	if err != nil {
		return nil, err
	}

	var result NuggetPayload
	if err := c.doJSON(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetDepositionText fetches the raw transcript text of a deposition.
func (c *Client) GetDepositionText(ctx context.Context, depo Deposition) (string, error) {
	body, err := marshalBody(map[string]string{
		"case_name":           depo.CaseName,
		"deposition_filename": depo.Name,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/get-deposition-text", body)
	if err != nil {
		return "", err
	}

	var result DepositionText
	if err := c.doJSON(req, &result); err != nil {
		return "", err
	}
	return result.Data.DepositionText, nil
}
