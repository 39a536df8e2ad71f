package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vietthreads/backoffice-backend/pkg/config"
	"github.com/vietthreads/backoffice-backend/pkg/enums"
	pkgerrors "github.com/vietthreads/backoffice-backend/pkg/errors"
	"github.com/vietthreads/backoffice-backend/pkg/logger"
	"github.com/vietthreads/backoffice-backend/pkg/metrics"
	"github.com/vietthreads/backoffice-backend/pkg/models"
	pkgredis "github.com/vietthreads/backoffice-backend/pkg/redis"
)

const cooldownScope = "insights:orders"

// OrderSource is the read-only slice of the order book the analyzer needs.
type OrderSource interface {
	Snapshot(ctx context.Context) []models.Order
}

// Insight is one generated analysis of the current order book.
type Insight struct {
	Text        string    `json:"text"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Service produces AI summaries of the order book.
type Service interface {
	AnalyzeOrders(ctx context.Context) (Insight, error)
}

type service struct {
	cfg      config.InsightsConfig
	orders   OrderSource
	cooldown pkgredis.CooldownStore
	client   *http.Client
	logg     *logger.Logger
	metrics  *metrics.ServiceMetrics

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewService wires the analyzer against the generative-language REST API.
func NewService(cfg config.InsightsConfig, orders OrderSource, cooldown pkgredis.CooldownStore, logg *logger.Logger, m *metrics.ServiceMetrics) (Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("order source required")
	}
	if cooldown == nil {
		return nil, fmt.Errorf("cooldown store required")
	}
	return &service{
		cfg:      cfg,
		orders:   orders,
		cooldown: cooldown,
		client:   &http.Client{Timeout: cfg.Timeout},
		logg:     logg,
		metrics:  m,
		now:      time.Now,
		sleep:    sleepCtx,
	}, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// KindFor maps an analyzer error onto the coarse discriminants the UI
// renders. Unknown errors read as generic.
func KindFor(err error) enums.InsightErrorKind {
	typed := pkgerrors.As(err)
	if typed == nil {
		return enums.InsightErrorGeneric
	}
	switch typed.Code() {
	case pkgerrors.CodeQuotaExhausted:
		return enums.InsightErrorQuotaExhausted
	case pkgerrors.CodeNoCredential:
		return enums.InsightErrorNoCredential
	default:
		return enums.InsightErrorGeneric
	}
}

// AnalyzeOrders summarizes the current order snapshot. A fetch inside the
// cooldown window is suppressed without touching the upstream; a quota
// rejection is retried silently once after the configured delay.
func (s *service) AnalyzeOrders(ctx context.Context) (Insight, error) {
	if s.cfg.APIKey == "" {
		s.metrics.IncInsightFetch(enums.InsightErrorNoCredential.String())
		return Insight{}, pkgerrors.New(pkgerrors.CodeNoCredential, "insights api key not configured")
	}

	active, err := s.cooldown.InCooldown(ctx, cooldownScope)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "cooldown lookup failed, proceeding with fetch")
		}
	} else if active {
		s.metrics.IncInsightFetch("cooldown")
		return Insight{}, pkgerrors.New(pkgerrors.CodeRateLimit, "insights refresh is cooling down")
	}

	prompt, err := s.buildPrompt(ctx)
	if err != nil {
		return Insight{}, err
	}

	text, err := s.generate(ctx, prompt)
	if err != nil {
		typed := pkgerrors.As(err)
		if typed != nil && typed.Code() == pkgerrors.CodeQuotaExhausted {
			if sleepErr := s.sleep(ctx, s.cfg.RetryDelay); sleepErr != nil {
				return Insight{}, pkgerrors.Wrap(pkgerrors.CodeQuotaExhausted, sleepErr, "retry cancelled")
			}
			text, err = s.generate(ctx, prompt)
		}
	}
	if err != nil {
		s.metrics.IncInsightFetch(KindFor(err).String())
		return Insight{}, err
	}

	if markErr := s.cooldown.MarkCooldown(ctx, cooldownScope, s.cfg.Cooldown); markErr != nil && s.logg != nil {
		s.logg.Warn(ctx, "failed to open insights cooldown window")
	}

	s.metrics.IncInsightFetch("success")
	return Insight{Text: text, Model: s.cfg.Model, GeneratedAt: s.now().UTC()}, nil
}

type orderDigest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Total  string `json:"total"`
	Items  string `json:"items"`
}

func (s *service) buildPrompt(ctx context.Context) (string, error) {
	orders := s.orders.Snapshot(ctx)
	digests := make([]orderDigest, 0, len(orders))
	for _, o := range orders {
		names := make([]string, 0, len(o.Items))
		for _, item := range o.Items {
			names = append(names, item.Name)
		}
		digests = append(digests, orderDigest{
			ID:     o.ID,
			Status: o.Status.String(),
			Total:  o.TotalAmount.String(),
			Items:  strings.Join(names, ", "),
		})
	}
	encoded, err := json.Marshal(digests)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding order digest")
	}

	return fmt.Sprintf(`Dưới đây là danh sách đơn hàng gần đây của shop quần áo:
%s

Hãy thực hiện phân tích nhanh:
1. Tổng hợp tình trạng đơn hàng.
2. Đề xuất chiến lược bán hàng hoặc ưu đãi dựa trên các mặt hàng đang bán chạy.
3. Đưa ra 1 lời khuyên quản lý kho bãi.

Phản hồi bằng tiếng Việt, ngắn gọn, súc tích dưới dạng các gạch đầu dòng Markdown.`, encoded), nil
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (s *service) generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{Temperature: 0.7},
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding generate request")
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		strings.TrimRight(s.cfg.BaseURL, "/"), s.cfg.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building generate request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "calling insights upstream")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading insights response")
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", pkgerrors.New(pkgerrors.CodeQuotaExhausted, "insights upstream quota exhausted")
	case resp.StatusCode != http.StatusOK:
		return "", pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("insights upstream returned status %d", resp.StatusCode))
	}

	var decoded generateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding insights response")
	}
	text := extractText(decoded)
	if text == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "empty response from insights upstream")
	}
	return text, nil
}

func extractText(resp generateResponse) string {
	var b strings.Builder
	for _, candidate := range resp.Candidates {
		for _, p := range candidate.Content.Parts {
			b.WriteString(p.Text)
		}
		break
	}
	return strings.TrimSpace(b.String())
}
