package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/casemark/depo-review/internal/annotation"
)

// mockHTTPClient is a test double for HTTPClient
type mockHTTPClient struct {
	responses []*http.Response
	errors    []error
	callCount int
	requests  []*http.Request
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	// Capture a copy of the request body so tests can inspect it
	if req.Body != nil {
		bodyBytes, _ := io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		clone := req.Clone(req.Context())
		clone.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		m.requests = append(m.requests, clone)
	} else {
		m.requests = append(m.requests, req)
	}
	defer func() { m.callCount++ }()
	if m.callCount < len(m.errors) && m.errors[m.callCount] != nil {
		return nil, m.errors[m.callCount]
	}
	if m.callCount < len(m.responses) {
		return m.responses[m.callCount], nil
	}
	return nil, io.EOF
}

func jsonResponse(status int, v interface{}) *http.Response {
	body, _ := json.Marshal(v)
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(body)),
	}
}

func TestListFilePairs(t *testing.T) {
	mock := &mockHTTPClient{
		responses: []*http.Response{
			jsonResponse(http.StatusOK, map[string]interface{}{
				"status": "success",
				"pairs": []FilePair{
					{PairID: "p1", CaseName: "Smith v Jones", Deposition: "depo_smith.txt", Summary: "summary_smith.txt"},
					{PairID: "p2", CaseName: "Smith v Jones", Deposition: "depo_doe.txt", Summary: "summary_doe.txt"},
				},
			}),
		},
	}

	client := NewClient(WithHTTPClient(mock))
	pairs, err := client.ListFilePairs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0].Summary != "summary_smith.txt" {
		t.Errorf("expected summary_smith.txt, got %s", pairs[0].Summary)
	}
}

func TestListFilePairsBadStatus(t *testing.T) {
	mock := &mockHTTPClient{
		responses: []*http.Response{
			jsonResponse(http.StatusOK, map[string]interface{}{"status": "error"}),
		},
	}

	client := NewClient(WithHTTPClient(mock))
	if _, err := client.ListFilePairs(context.Background()); err == nil {
		t.Error("expected error for non-success status")
	}
}

func TestProcessPairRequestBody(t *testing.T) {
	mock := &mockHTTPClient{
		responses: []*http.Response{
			jsonResponse(http.StatusOK, map[string]interface{}{
				"status":            "success",
				"data":              ResultData{Summary: "The witness said.", Stats: ResultStats{SummaryLength: 17}},
				"summary_file_name": "summary_smith.txt",
			}),
		},
	}

	client := NewClient(WithHTTPClient(mock), WithBaseURL("http://fake"))
	result, err := client.ProcessPair(context.Background(), FilePair{
		CaseName:   "Smith v Jones",
		Deposition: "depo_smith.txt",
		Summary:    "summary_smith.txt",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SummaryFileName != "summary_smith.txt" {
		t.Errorf("expected summary_smith.txt, got %s", result.SummaryFileName)
	}

	if len(mock.requests) == 0 {
		t.Fatal("expected at least one request")
	}
	body, _ := io.ReadAll(mock.requests[0].Body)
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("failed to unmarshal request body: %v", err)
	}
	if payload["case_name"] != "Smith v Jones" {
		t.Errorf("expected case_name in body, got %v", payload["case_name"])
	}
	if payload["deposition_filename"] != "depo_smith.txt" {
		t.Errorf("expected deposition_filename in body, got %v", payload["deposition_filename"])
	}
	if payload["summary_filename"] != "summary_smith.txt" {
		t.Errorf("expected summary_filename in body, got %v", payload["summary_filename"])
	}
}

func TestSaveAnnotationsRequestBody(t *testing.T) {
	mock := &mockHTTPClient{
		responses: []*http.Response{
			jsonResponse(http.StatusOK, map[string]string{"status": "success"}),
		},
	}

	client := NewClient(WithHTTPClient(mock), WithBaseURL("http://fake"))
	entries := []annotation.Entry{
		{
			CitationLabel: "4:12-4:19",
			SummaryFact:   "Witness arrived at 9am.",
			Judgement:     annotation.Judgement{Relevance: annotation.Relevant},
		},
	}

	if err := client.SaveAnnotations(context.Background(), "summary_smith_ab12cd34", entries); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body, _ := io.ReadAll(mock.requests[0].Body)
	var payload struct {
		ResultID    string             `json:"resultId"`
		Annotations []annotation.Entry `json:"annotations"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("failed to unmarshal request body: %v", err)
	}
	if payload.ResultID != "summary_smith_ab12cd34" {
		t.Errorf("expected resultId in body, got %s", payload.ResultID)
	}
	if len(payload.Annotations) != 1 || payload.Annotations[0].CitationLabel != "4:12-4:19" {
		t.Errorf("annotations not round-tripped: %+v", payload.Annotations)
	}
}

func TestGetDepositionText(t *testing.T) {
	mock := &mockHTTPClient{
		responses: []*http.Response{
			jsonResponse(http.StatusOK, map[string]interface{}{
				"status": "success",
				"data":   map[string]string{"deposition_text": "Q. State your name.\nA. John Smith."},
			}),
		},
	}

	client := NewClient(WithHTTPClient(mock))
	text, err := client.GetDepositionText(context.Background(), Deposition{
		CaseName: "Smith v Jones",
		Name:     "depo_smith.txt",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "Q. State your name.\nA. John Smith." {
		t.Errorf("unexpected text: %q", text)
	}
}

func TestDoRequest429WithRetryAfterHeader(t *testing.T) {
	mock := &mockHTTPClient{
		responses: []*http.Response{
			{
				StatusCode: http.StatusTooManyRequests,
				Header:     http.Header{"Retry-After": []string{"1"}},
				Body:       io.NopCloser(bytes.NewReader([]byte{})),
			},
			jsonResponse(http.StatusOK, map[string]interface{}{"status": "success", "pairs": []FilePair{}}),
		},
	}

	client := NewClient(WithHTTPClient(mock))
	if _, err := client.ListFilePairs(context.Background()); err != nil {
		t.Fatalf("expected success after retry, got error: %v", err)
	}
	if mock.callCount != 2 {
		t.Errorf("expected 2 calls (1 retry), got %d", mock.callCount)
	}
}

func TestDoRequestServerErrorRetries(t *testing.T) {
	mock := &mockHTTPClient{
		responses: []*http.Response{
			{
				StatusCode: http.StatusBadGateway,
				Body:       io.NopCloser(bytes.NewReader([]byte{})),
			},
			jsonResponse(http.StatusOK, map[string]interface{}{"status": "success", "pairs": []FilePair{}}),
		},
	}

	client := NewClient(WithHTTPClient(mock))

	start := time.Now()
	_, err := client.ListFilePairs(context.Background())
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("expected success after retry, got error: %v", err)
	}
	if mock.callCount != 2 {
		t.Errorf("expected 2 calls, got %d", mock.callCount)
	}
	// Second attempt (attempt=1) sleeps retryDelay * 1 = 1s
	if elapsed < 900*time.Millisecond {
		t.Errorf("expected backoff delay of ~1s, got %v", elapsed)
	}
}

// drainingHTTPClient consumes the request body the way a real transport
// does, without putting it back.
type drainingHTTPClient struct {
	responses []*http.Response
	callCount int
	bodies    []string
}

func (m *drainingHTTPClient) Do(req *http.Request) (*http.Response, error) {
	body := ""
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		req.Body.Close()
		body = string(b)
	}
	m.bodies = append(m.bodies, body)
	defer func() { m.callCount++ }()
	if m.callCount < len(m.responses) {
		return m.responses[m.callCount], nil
	}
	return nil, io.EOF
}

func TestRetryResendsFullRequestBody(t *testing.T) {
	mock := &drainingHTTPClient{
		responses: []*http.Response{
			{
				StatusCode: http.StatusBadGateway,
				Body:       io.NopCloser(bytes.NewReader([]byte{})),
			},
			jsonResponse(http.StatusOK, map[string]string{"status": "success"}),
		},
	}

	client := NewClient(WithHTTPClient(mock), WithBaseURL("http://fake"))
	entries := []annotation.Entry{
		{CitationLabel: "4:12-4:19", SummaryFact: "Witness arrived at 9am."},
	}
	if err := client.SaveAnnotations(context.Background(), "summary_smith_ab12cd34", entries); err != nil {
		t.Fatalf("expected success after retry, got error: %v", err)
	}

	if len(mock.bodies) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(mock.bodies))
	}
	if mock.bodies[0] == "" {
		t.Fatal("first attempt sent an empty body")
	}
	if mock.bodies[1] != mock.bodies[0] {
		t.Errorf("retry body %q differs from original %q", mock.bodies[1], mock.bodies[0])
	}
}

func TestDoRequestExhaustsRetries(t *testing.T) {
	serverErr := func() *http.Response {
		return &http.Response{
			StatusCode: http.StatusInternalServerError,
			Body:       io.NopCloser(bytes.NewReader([]byte{})),
		}
	}
	mock := &mockHTTPClient{
		responses: []*http.Response{serverErr(), serverErr(), serverErr()},
	}

	client := NewClient(WithHTTPClient(mock))
	if _, err := client.ListFilePairs(context.Background()); err == nil {
		t.Error("expected error after exhausting retries")
	}
	if mock.callCount != maxRetries {
		t.Errorf("expected %d calls, got %d", maxRetries, mock.callCount)
	}
}
