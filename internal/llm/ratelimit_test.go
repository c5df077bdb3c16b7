package llm

import (
	"context"
	"testing"

	"resumelens/pkg/models"
)

func TestNewOutboundLimiterDisabled(t *testing.T) {
	if limiter := NewOutboundLimiter(0); limiter != nil {
		t.Error("Expected nil limiter for rate 0")
	}
	if limiter := NewOutboundLimiter(-5); limiter != nil {
		t.Error("Expected nil limiter for negative rate")
	}
}

func TestNilLimiterIsNoOp(t *testing.T) {
	var limiter *OutboundLimiter

	if err := limiter.Wait(context.Background(), models.ProviderOpenAI); err != nil {
		t.Errorf("nil limiter Wait() error = %v, want nil", err)
	}
	if stats := limiter.GetStats(); stats != nil {
		t.Errorf("nil limiter GetStats() = %v, want nil", stats)
	}
}

func TestLimiterCountsRequestsPerProvider(t *testing.T) {
	// 600 per minute with burst 5: three calls pass without blocking.
	limiter := NewOutboundLimiter(600)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := limiter.Wait(ctx, models.ProviderOpenAI); err != nil {
			t.Fatalf("Wait() call %d error = %v", i+1, err)
		}
	}
	if err := limiter.Wait(ctx, models.ProviderGemini); err != nil {
		t.Fatalf("Wait() for gemini error = %v", err)
	}

	stats := limiter.GetStats()
	if len(stats) != 2 {
		t.Fatalf("Expected stats for 2 providers, got %d", len(stats))
	}

	openaiStats, ok := stats[models.ProviderOpenAI]
	if !ok {
		t.Fatal("Expected stats entry for openai")
	}
	if requests := openaiStats["requests"].(int64); requests != 3 {
		t.Errorf("openai requests = %d, want 3", requests)
	}

	geminiStats := stats[models.ProviderGemini]
	if requests := geminiStats["requests"].(int64); requests != 1 {
		t.Errorf("gemini requests = %d, want 1", requests)
	}
}

func TestLimiterWaitHonorsCanceledContext(t *testing.T) {
	limiter := NewOutboundLimiter(60)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := limiter.Wait(ctx, models.ProviderOpenAI); err == nil {
		t.Error("Wait() with canceled context should return an error")
	}

	stats := limiter.GetStats()
	if openaiStats, ok := stats[models.ProviderOpenAI]; ok {
		if requests := openaiStats["requests"].(int64); requests != 0 {
			t.Errorf("aborted wait should not count as a request, got %d", requests)
		}
	}
}
