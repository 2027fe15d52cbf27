package generation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makerworks/safetytraining/backend/internal/domain/providers"
	apperrors "github.com/makerworks/safetytraining/backend/pkg/errors"
)

var (
	testSystem = providers.Message{Role: "system", Content: "system prompt"}
	testUser   = providers.Message{Role: "user", Content: "user prompt"}
)

const validQuizBody = `{"choices":[{"message":{"content":"Quiz\n` + "1. Q?\\nA) a\\nB) b\\nC) c\\nD) d\\nAnswer: A - because." + `"}}]}`

func instantSleep(delays *[]time.Duration) func(ctx context.Context, d time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		if delays != nil {
			*delays = append(*delays, d)
		}
		return nil
	}
}

func newTestClient(serverURL string, delays *[]time.Duration) *Client {
	return NewClientWithOptions("test-key", "test-model", serverURL, 4, &http.Client{}, instantSleep(delays))
}

func TestGenerateQuizText_SucceedsOnFourthAttempt(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if calls <= 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(validQuizBody))
	}))
	defer server.Close()

	var delays []time.Duration
	client := newTestClient(server.URL, &delays)

	text, err := client.GenerateQuizText(context.Background(), testSystem, testUser)

	require.NoError(t, err)
	assert.Contains(t, text, "Quiz")
	assert.Equal(t, 4, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, delays)
}

func TestGenerateQuizText_FailsAfterRetryCeiling(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(server.URL, nil)

	_, err := client.GenerateQuizText(context.Background(), testSystem, testUser)

	require.Error(t, err)
	assert.Equal(t, 4, calls)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeGenerationHTTP))
	assert.Contains(t, err.Error(), "after 4 attempts")
}

func TestGenerateQuizText_RateLimitIsRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(validQuizBody))
	}))
	defer server.Close()

	client := newTestClient(server.URL, nil)

	_, err := client.GenerateQuizText(context.Background(), testSystem, testUser)

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestGenerateQuizText_ClientErrorFailsImmediately(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, nil)

	_, err := client.GenerateQuizText(context.Background(), testSystem, testUser)

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeGenerationHTTP))
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "bad key")
}

func TestGenerateQuizText_MalformedOutputExhaustsBudget(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"choices":[{"message":{"content":"I am sorry, I cannot help with that."}}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, nil)

	_, err := client.GenerateQuizText(context.Background(), testSystem, testUser)

	require.Error(t, err)
	assert.Equal(t, 4, calls)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeMalformedGeneration))
}

func TestGenerateQuizText_MissingContentFieldIsRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write([]byte(`{"choices":[]}`))
			return
		}
		w.Write([]byte(validQuizBody))
	}))
	defer server.Close()

	client := newTestClient(server.URL, nil)

	_, err := client.GenerateQuizText(context.Background(), testSystem, testUser)

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestGenerateAnswer_NoFormatValidation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"Wear cut-resistant gloves."}}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, nil)

	answer, err := client.GenerateAnswer(context.Background(), testSystem, testUser)

	require.NoError(t, err)
	assert.Equal(t, "Wear cut-resistant gloves.", answer)
}
