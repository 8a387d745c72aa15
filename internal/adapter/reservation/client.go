package reservation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/tuananh0303/DATN-sub000/internal/core/domain"
	"github.com/tuananh0303/DATN-sub000/internal/core/ports"
)

// APIError is a non-2xx answer from the reservation service.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("reservation service: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("reservation service: %d %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return domain.ErrNotFound
	}
	return nil
}

type Options struct {
	Timeout time.Duration
	// RequestsPerSecond caps outbound calls; zero disables the cap.
	RequestsPerSecond float64
}

// Client talks JSON over HTTP to a remote reservation service.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *zap.Logger
}

func NewClient(baseURL string, opts Options, log *zap.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid reservation service url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid reservation service url %q", baseURL)
	}
	if log == nil {
		log = zap.NewNop()
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    limiter,
		log:        log,
	}, nil
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method string, path []string, query url.Values, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := c.baseURL.JoinPath(path...)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("reservation request failed", zap.String("method", method), zap.String("url", u.String()), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	c.log.Debug("reservation request",
		zap.String("method", method),
		zap.String("url", u.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var eb errorBody
		if data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); len(data) > 0 && json.Unmarshal(data, &eb) == nil && eb.Error.Message != "" {
			apiErr.Code = eb.Error.Code
			apiErr.Message = eb.Error.Message
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) ListAvailableFieldGroups(ctx context.Context, q ports.FieldGroupQuery) ([]domain.FieldGroupOffer, error) {
	days := make([]string, len(q.Dates))
	for i, d := range q.Dates {
		days[i] = d.String()
	}
	query := url.Values{
		"sport_id": {q.SportID},
		"dates":    {strings.Join(days, ",")},
		"start":    {q.Start.String()},
		"end":      {q.End.String()},
	}

	var out []domain.FieldGroupOffer
	err := c.do(ctx, http.MethodGet, []string{"facilities", q.FacilityID, "field-groups"}, query, nil, &out)
	return out, err
}

func (c *Client) ListAvailableServices(ctx context.Context, facilityID, draftID string) ([]domain.ServiceCatalogEntry, error) {
	var query url.Values
	if draftID != "" {
		query = url.Values{"draft_id": {draftID}}
	}

	var out []domain.ServiceCatalogEntry
	err := c.do(ctx, http.MethodGet, []string{"facilities", facilityID, "services"}, query, nil, &out)
	return out, err
}

func (c *Client) GetOperatingHours(ctx context.Context, facilityID string) (domain.OperatingHours, error) {
	var out domain.OperatingHours
	err := c.do(ctx, http.MethodGet, []string{"facilities", facilityID, "operating-hours"}, nil, nil, &out)
	return out, err
}

func (c *Client) ListVouchers(ctx context.Context, facilityID string) ([]domain.Voucher, error) {
	var out []domain.Voucher
	err := c.do(ctx, http.MethodGet, []string{"facilities", facilityID, "vouchers"}, nil, nil, &out)
	return out, err
}

type createDraftBody struct {
	Start   domain.TimeOfDay   `json:"start_time"`
	End     domain.TimeOfDay   `json:"end_time"`
	Slots   []domain.FieldSlot `json:"slots"`
	SportID string             `json:"sport_id"`
}

type handleBody struct {
	PaymentHandle string `json:"payment_handle"`
}

func (c *Client) CreateDraft(ctx context.Context, req ports.CreateDraftRequest) (ports.DraftHandle, error) {
	body := createDraftBody{
		Start:   req.TimeRange.Start,
		End:     req.TimeRange.End,
		Slots:   req.Slots,
		SportID: req.SportID,
	}

	var out ports.DraftHandle
	if err := c.do(ctx, http.MethodPost, []string{"drafts"}, nil, body, &out); err != nil {
		return ports.DraftHandle{}, err
	}
	if out.ID == "" {
		return ports.DraftHandle{}, errors.New("reservation service returned a draft without id")
	}
	return out, nil
}

func (c *Client) UpdateDraftSlots(ctx context.Context, draftID string, slots []domain.FieldSlot) (string, error) {
	var out handleBody
	err := c.do(ctx, http.MethodPut, []string{"drafts", draftID, "slots"}, nil, map[string]any{"slots": slots}, &out)
	return out.PaymentHandle, err
}

func (c *Client) UpdateDraftServices(ctx context.Context, draftID string, services []domain.ServiceSelection) (string, error) {
	var out handleBody
	err := c.do(ctx, http.MethodPut, []string{"drafts", draftID, "services"}, nil, map[string]any{"services": services}, &out)
	return out.PaymentHandle, err
}

func (c *Client) DeleteDraft(ctx context.Context, draftID string) error {
	return c.do(ctx, http.MethodDelete, []string{"drafts", draftID}, nil, nil, nil)
}

func (c *Client) InitiatePayment(ctx context.Context, req ports.PaymentRequest) (string, error) {
	body := struct {
		PaymentHandle string               `json:"payment_handle"`
		Method        domain.PaymentMethod `json:"method"`
		VoucherID     string               `json:"voucher_id,omitempty"`
	}{req.PaymentHandle, req.Method, req.VoucherID}

	var out struct {
		RedirectURL string `json:"redirect_url"`
	}
	if err := c.do(ctx, http.MethodPost, []string{"payments"}, nil, body, &out); err != nil {
		return "", err
	}
	return out.RedirectURL, nil
}
