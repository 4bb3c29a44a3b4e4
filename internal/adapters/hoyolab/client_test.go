package hoyolab

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wangyi68/hoyolab-auto-checkin/internal/domain"
)

func testSpec(primary string, fallbacks ...string) domain.GameSpec {
	return domain.GameSpec{
		ID:                domain.GameHonkaiStarRail,
		Name:              "Honkai: Star Rail",
		ShortName:         "HSR",
		ActID:             "e202303301540311",
		GameBiz:           "hkrpg_global",
		CheckinURL:        "https://act.hoyolab.com/bbs/event/signin/hkrpg/index.html",
		PrimaryEndpoint:   primary,
		FallbackEndpoints: fallbacks,
		SignPath:          "/event/luna/sign",
		InfoPath:          "/event/luna/info",
	}
}

func testCredential() domain.Credential {
	return domain.Credential{
		Game:        domain.GameHonkaiStarRail,
		LtUID:       "100",
		LtToken:     "lt-token",
		AccountID:   "100",
		CookieToken: "cookie-token",
	}
}

func newTestClient(t *testing.T, opts Options) *Client {
	t.Helper()
	client, err := NewClient(opts)
	require.NoError(t, err)
	return client
}

func signHandler(retcode int, message string, award *awardData) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/event/luna/sign":
			data := map[string]any{}
			if award != nil {
				data["award"] = award
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"retcode": retcode,
				"message": message,
				"data":    data,
			})
		case "/event/luna/info":
			_, _ = fmt.Fprint(w, `{"retcode":0,"message":"OK","data":{"total_sign_day":12,"is_sign":true}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestCheckInSuccessWithReward(t *testing.T) {
	server := httptest.NewServer(signHandler(0, "OK", &awardData{Name: "Stellar Jade", Count: 40}))
	defer server.Close()

	client := newTestClient(t, Options{})
	result := client.CheckIn(context.Background(), testSpec(server.URL), testCredential())

	assert.Equal(t, domain.StatusSuccess, result.Status)
	require.NotNil(t, result.Retcode)
	assert.Equal(t, 0, *result.Retcode)
	require.NotNil(t, result.Reward)
	assert.Equal(t, "Stellar Jade", result.Reward.Name)
	assert.Equal(t, 40, result.Reward.Count)
	require.NotNil(t, result.SignedInDays)
	assert.Equal(t, 12, *result.SignedInDays)
}

func TestCheckInAlreadySignedIn(t *testing.T) {
	server := httptest.NewServer(signHandler(-5003, "Traveler, you've already checked in today~", nil))
	defer server.Close()

	client := newTestClient(t, Options{})
	result := client.CheckIn(context.Background(), testSpec(server.URL), testCredential())

	assert.Equal(t, domain.StatusAlreadyCheckedIn, result.Status)
	require.NotNil(t, result.Retcode)
	assert.Equal(t, -5003, *result.Retcode)
}

func TestCheckInInvalidCookieRetcode(t *testing.T) {
	server := httptest.NewServer(signHandler(-100, "Please log in to take part in the event", nil))
	defer server.Close()

	client := newTestClient(t, Options{})
	result := client.CheckIn(context.Background(), testSpec(server.URL), testCredential())

	assert.Equal(t, domain.StatusAuthInvalid, result.Status)
	assert.Contains(t, result.Message, "log in")
}

func TestCheckInUnrecognizedRetcodeIsUnknown(t *testing.T) {
	server := httptest.NewServer(signHandler(-9999, "mystery failure", nil))
	defer server.Close()

	client := newTestClient(t, Options{})
	result := client.CheckIn(context.Background(), testSpec(server.URL), testCredential())

	assert.Equal(t, domain.StatusUnknownError, result.Status)
	require.NotNil(t, result.Retcode)
	assert.Equal(t, -9999, *result.Retcode)
	assert.Equal(t, "mystery failure", result.Message)
}

func TestCheckInRateLimitedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(t, Options{})
	result := client.CheckIn(context.Background(), testSpec(server.URL), testCredential())

	assert.Equal(t, domain.StatusRateLimited, result.Status)
}

func TestCheckInUnauthorizedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, Options{})
	result := client.CheckIn(context.Background(), testSpec(server.URL), testCredential())

	assert.Equal(t, domain.StatusAuthInvalid, result.Status)
}

func TestCheckInFallbackEndpointUsedAfterPrimary5xx(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer primary.Close()

	fallback := httptest.NewServer(signHandler(0, "OK", &awardData{Name: "Primogem", Count: 20}))
	defer fallback.Close()

	client := newTestClient(t, Options{})
	result := client.CheckIn(context.Background(), testSpec(primary.URL, fallback.URL), testCredential())

	assert.Equal(t, domain.StatusSuccess, result.Status)
	require.NotNil(t, result.Reward)
	assert.Equal(t, "Primogem", result.Reward.Name)
}

func TestCheckInRotationRetcodeTriesFallback(t *testing.T) {
	primary := httptest.NewServer(signHandler(-500001, "system busy", nil))
	defer primary.Close()

	fallback := httptest.NewServer(signHandler(0, "OK", nil))
	defer fallback.Close()

	client := newTestClient(t, Options{})
	result := client.CheckIn(context.Background(), testSpec(primary.URL, fallback.URL), testCredential())

	assert.Equal(t, domain.StatusSuccess, result.Status)
}

func TestCheckInAllEndpointsDownIsNetworkError(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	down.Close() // refuse connections entirely

	client := newTestClient(t, Options{})
	result := client.CheckIn(context.Background(), testSpec(down.URL, down.URL), testCredential())

	assert.Equal(t, domain.StatusNetworkError, result.Status)
	assert.NotEmpty(t, result.Message)
}

func TestCheckInMissingCookieFieldNoRequestSent(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		requests++
	}))
	defer server.Close()

	cred := testCredential()
	cred.CookieToken = ""

	client := newTestClient(t, Options{})
	result := client.CheckIn(context.Background(), testSpec(server.URL), cred)

	assert.Equal(t, domain.StatusAuthInvalid, result.Status)
	assert.Contains(t, result.Message, domain.CookieFieldCookieToken)
	assert.Zero(t, requests)
	assert.Nil(t, result.Retcode)
}

func TestCheckInRequestHeaders(t *testing.T) {
	var gotHeaders http.Header
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/event/luna/sign" {
			gotHeaders = r.Header.Clone()
			gotQuery = r.URL.RawQuery
		}
		_, _ = fmt.Fprint(w, `{"retcode":0,"message":"OK","data":{}}`)
	}))
	defer server.Close()

	client := newTestClient(t, Options{})
	spec := testSpec(server.URL)
	result := client.CheckIn(context.Background(), spec, testCredential())
	require.Equal(t, domain.StatusSuccess, result.Status)

	assert.Equal(t, "act_id=e202303301540311", gotQuery)
	assert.Contains(t, gotHeaders.Get("Cookie"), "ltuid_v2=100")
	assert.Equal(t, "en-us", gotHeaders.Get("x-rpc-lang"))
	assert.Equal(t, spec.CheckinURL, gotHeaders.Get("Referer"))
	assert.Equal(t, "hkrpg_global", gotHeaders.Get("x-rpc-game_biz"))
	assert.Equal(t, "2.73.1", gotHeaders.Get("x-rpc-app_version"))
	assert.Contains(t, gotHeaders.Get("User-Agent"), "Chrome/")
}

func TestCheckInGenshinCarriesDSHeader(t *testing.T) {
	var ds string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/sign") {
			ds = r.Header.Get("DS")
		}
		_, _ = fmt.Fprint(w, `{"retcode":0,"message":"OK","data":{}}`)
	}))
	defer server.Close()

	spec := testSpec(server.URL)
	spec.ID = domain.GameGenshinImpact
	spec.SignPath = "/event/sol/sign"
	spec.InfoPath = "/event/sol/info"

	client := newTestClient(t, Options{})
	result := client.CheckIn(context.Background(), spec, testCredential())
	require.Equal(t, domain.StatusSuccess, result.Status)

	parts := strings.Split(ds, ",")
	require.Len(t, parts, 3)
	assert.Len(t, parts[1], 6)
	assert.Len(t, parts[2], 32) // md5 hex digest
}

func TestUserAgentRotationAdvancesPerRequest(t *testing.T) {
	client := newTestClient(t, Options{UserAgentRotation: true})

	first := client.userAgent()
	second := client.userAgent()
	third := client.userAgent()
	fourth := client.userAgent()

	assert.NotEqual(t, first, second)
	assert.NotEqual(t, second, third)
	assert.Equal(t, first, fourth) // pool of three wraps around

	fixed := newTestClient(t, Options{})
	assert.Equal(t, fixed.userAgent(), fixed.userAgent())
}

func TestCheckInRequestTimeoutClassifiedAsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = fmt.Fprint(w, `{"retcode":0,"message":"OK","data":{}}`)
	}))
	defer server.Close()

	client := newTestClient(t, Options{RequestTimeout: 20 * time.Millisecond})
	result := client.CheckIn(context.Background(), testSpec(server.URL), testCredential())

	assert.Equal(t, domain.StatusNetworkError, result.Status)
}

func TestNewClientRejectsBadProxyURL(t *testing.T) {
	_, err := NewClient(Options{ProxyURL: "://not-a-url"})
	require.Error(t, err)
}
