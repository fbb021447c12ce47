package pipeline

import (
	"context"
	"fmt"
	"net/http"

	"github.com/casemark/depo-review/internal/annotation"
)

// SaveAnnotations pushes a full annotation snapshot for a result. Every
// push carries the complete entry list, so the most recent accepted push
// is always the authoritative state for that result id.
func (c *Client) SaveAnnotations(ctx context.Context, resultID string, entries []annotation.Entry) error {
	body, err := marshalBody(map[string]interface{}{
		"resultId":    resultID,
		"annotations": entries,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/save-annotations", body)
	if err != nil {
		return err
	}

	var result struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(req, &result); err != nil {
		return err
	}
	if result.Status != "success" {
		return fmt.Errorf("save-annotations returned status %q", result.Status)
	}
	return nil
}
