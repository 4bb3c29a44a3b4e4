package hoyolab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wangyi68/hoyolab-auto-checkin/internal/domain"
	"github.com/wangyi68/hoyolab-auto-checkin/internal/ports"
)

const maxAPIResponseBytes = 1 << 20

var chromeVersions = []string{"120.0.0.0", "121.0.0.0", "122.0.0.0"}

type Options struct {
	HTTPClient        *http.Client
	Clock             ports.Clock
	RequestTimeout    time.Duration
	RateLimitDelay    time.Duration
	UserAgentRotation bool
	ProxyURL          string
}

// Client issues authenticated sign-in calls against the HoYoLAB API. One
// CheckIn is a single logical attempt: it walks the game's fallback
// endpoints but never retries a classified outcome.
type Client struct {
	httpClient     *http.Client
	clock          ports.Clock
	requestTimeout time.Duration
	rateLimitDelay time.Duration
	rotateUA       bool
	// uaCounter advances on each request when rotation is enabled.
	// Check-ins run sequentially, so no lock is needed.
	uaCounter int
}

var _ ports.CheckinClient = (*Client)(nil)

func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	if opts.ProxyURL != "" {
		proxyURL, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		httpClient = &http.Client{
			Transport: &http.Transport{Proxy: http.ProxyURL(proxyURL)},
			Timeout:   httpClient.Timeout,
		}
	}

	clock := opts.Clock
	if clock == nil {
		clock = ports.SystemClock{}
	}

	requestTimeout := opts.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return &Client{
		httpClient:     httpClient,
		clock:          clock,
		requestTimeout: requestTimeout,
		rateLimitDelay: opts.RateLimitDelay,
		rotateUA:       opts.UserAgentRotation,
	}, nil
}

type apiResponse struct {
	Retcode int             `json:"retcode"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type signData struct {
	Award *awardData `json:"award"`
}

type awardData struct {
	Name  string `json:"name"`
	Count int    `json:"cnt"`
}

type infoData struct {
	TotalSignDay int  `json:"total_sign_day"`
	IsSign       bool `json:"is_sign"`
}

// CheckIn performs one sign-in attempt for the given game and credential.
func (c *Client) CheckIn(ctx context.Context, spec domain.GameSpec, cred domain.Credential) domain.AttemptResult {
	result := domain.AttemptResult{Game: spec.ID, Account: cred.LtUID}

	if missing := cred.MissingFields(); len(missing) > 0 {
		result.Status = domain.StatusAuthInvalid
		result.Message = fmt.Sprintf("%s: %s", domain.ErrCredentialIncomplete, strings.Join(missing, ", "))
		return result
	}

	if c.rateLimitDelay > 0 {
		if err := c.clock.Sleep(ctx, c.rateLimitDelay); err != nil {
			result.Status = domain.StatusNetworkError
			result.Message = err.Error()
			return result
		}
	}

	var last domain.AttemptResult
	for _, endpoint := range spec.Endpoints() {
		outcome, tryNext := c.sign(ctx, endpoint, spec, cred)
		if !tryNext {
			if outcome.Status.OK() {
				c.fillSignedInDays(ctx, endpoint, spec, cred, &outcome)
			}
			return outcome
		}
		last = outcome
		if ctx.Err() != nil {
			break
		}
	}

	// Every endpoint failed at the network level.
	result.Status = domain.StatusNetworkError
	result.Retcode = last.Retcode
	result.Message = last.Message
	return result
}

// sign posts the sign-in request to one endpoint. The second return value
// reports whether the next fallback endpoint should be tried.
func (c *Client) sign(ctx context.Context, endpoint string, spec domain.GameSpec, cred domain.Credential) (domain.AttemptResult, bool) {
	result := domain.AttemptResult{Game: spec.ID, Account: cred.LtUID}

	signURL, err := buildAPIURL(endpoint, spec.SignPath)
	if err != nil {
		result.Status = domain.StatusNetworkError
		result.Message = err.Error()
		return result, true
	}
	signURL += "?act_id=" + url.QueryEscape(spec.ActID)

	body, err := json.Marshal(map[string]string{"lang": cred.Lang()})
	if err != nil {
		result.Status = domain.StatusUnknownError
		result.Message = fmt.Sprintf("encode sign payload: %v", err)
		return result, false
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, signURL, bytes.NewReader(body))
	if err != nil {
		result.Status = domain.StatusUnknownError
		result.Message = fmt.Sprintf("create sign request: %v", err)
		return result, false
	}
	c.setHeaders(req, spec, cred)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		result.Status = domain.StatusNetworkError
		result.Message = fmt.Sprintf("request sign-in: %v", err)
		return result, true
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		result.Status = domain.StatusAuthInvalid
		result.Message = "unauthorized: invalid or expired cookies"
		return result, false
	case resp.StatusCode == http.StatusTooManyRequests:
		result.Status = domain.StatusRateLimited
		result.Message = "rate limited by endpoint"
		return result, false
	case resp.StatusCode >= http.StatusInternalServerError:
		result.Status = domain.StatusNetworkError
		result.Message = fmt.Sprintf("endpoint returned status %d", resp.StatusCode)
		return result, true
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		result.Status = domain.StatusUnknownError
		result.Message = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		return result, false
	}

	var payload apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxAPIResponseBytes)).Decode(&payload); err != nil {
		result.Status = domain.StatusNetworkError
		result.Message = fmt.Sprintf("decode sign response: %v", err)
		return result, true
	}

	retcode := payload.Retcode
	result.Retcode = &retcode
	result.Message = payload.Message

	status, tryNext := classifyRetcode(payload.Retcode)
	result.Status = status
	if tryNext {
		return result, true
	}

	if status == domain.StatusSuccess && len(payload.Data) > 0 {
		var data signData
		if err := json.Unmarshal(payload.Data, &data); err == nil && data.Award != nil {
			result.Reward = &domain.Reward{Name: data.Award.Name, Count: data.Award.Count}
		}
	}

	return result, false
}

// fillSignedInDays fetches the sign-in info for the day counter. Failures
// here never change the attempt outcome.
func (c *Client) fillSignedInDays(ctx context.Context, endpoint string, spec domain.GameSpec, cred domain.Credential, result *domain.AttemptResult) {
	infoURL, err := buildAPIURL(endpoint, spec.InfoPath)
	if err != nil {
		return
	}
	infoURL += "?act_id=" + url.QueryEscape(spec.ActID) + "&lang=" + url.QueryEscape(cred.Lang())

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, infoURL, nil)
	if err != nil {
		return
	}
	c.setHeaders(req, spec, cred)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return
	}

	var payload apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxAPIResponseBytes)).Decode(&payload); err != nil {
		return
	}
	if payload.Retcode != retcodeOK || len(payload.Data) == 0 {
		return
	}

	var info infoData
	if err := json.Unmarshal(payload.Data, &info); err != nil {
		return
	}
	days := info.TotalSignDay
	result.SignedInDays = &days
}

func (c *Client) setHeaders(req *http.Request, spec domain.GameSpec, cred domain.Credential) {
	req.Header.Set("User-Agent", c.userAgent())
	req.Header.Set("Cookie", cred.CookieHeader())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-rpc-lang", cred.Lang())
	req.Header.Set("Referer", spec.CheckinURL)

	// The GI endpoints validate a DS token instead of the game_biz header.
	if spec.ID == domain.GameGenshinImpact {
		req.Header.Set("x-rpc-app_version", "1.5.0")
		req.Header.Set("DS", dsToken(c.clock.Now()))
	} else {
		req.Header.Set("x-rpc-app_version", "2.73.1")
		req.Header.Set("x-rpc-game_biz", spec.GameBiz)
	}
}

func (c *Client) userAgent() string {
	version := chromeVersions[0]
	if c.rotateUA {
		version = chromeVersions[c.uaCounter%len(chromeVersions)]
		c.uaCounter++
	}
	return fmt.Sprintf("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/%s Safari/537.36", version)
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.requestTimeout)
}

func buildAPIURL(baseURL string, path string) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("api base url %q must use http or https", baseURL)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("api base url %q host is required", baseURL)
	}

	endpoint, err := parsed.Parse(path)
	if err != nil {
		return "", fmt.Errorf("parse api path: %w", err)
	}
	return endpoint.String(), nil
}
