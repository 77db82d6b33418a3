package telephony

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func signPayload(authToken, fullURL string, form url.Values) string {
	names := make([]string, 0, len(form))
	for name := range form {
		names = append(names, name)
	}
	// Tests construct single-value forms; lexicographic order by hand.
	for i := range names {
		for j := i + 1; j < len(names); j++ {
			if names[j] < names[i] {
				names[i], names[j] = names[j], names[i]
			}
		}
	}
	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(fullURL))
	for _, name := range names {
		mac.Write([]byte(name + form.Get(name)))
	}
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestValidSignature(t *testing.T) {
	token := "secret-token"
	fullURL := "https://api.example.com/webhooks/twilio/voice"
	form := url.Values{
		"CallSid": {"CA123"},
		"From":    {"+15551234567"},
		"To":      {"+15550000000"},
	}
	sig := signPayload(token, fullURL, form)

	if !ValidSignature(token, fullURL, form, sig) {
		t.Fatalf("valid signature rejected")
	}
	if ValidSignature(token, fullURL, form, "bogus") {
		t.Fatalf("bogus signature accepted")
	}
	if ValidSignature(token, "https://api.example.com/other", form, sig) {
		t.Fatalf("signature accepted for a different URL")
	}
	tampered := url.Values{}
	for k, v := range form {
		tampered[k] = v
	}
	tampered.Set("To", "+19999999999")
	if ValidSignature(token, fullURL, tampered, sig) {
		t.Fatalf("signature accepted for tampered form")
	}
	if ValidSignature("", fullURL, form, sig) {
		t.Fatalf("empty token must never validate")
	}
}

func signedWebhookRequest(t *testing.T, token string, sign bool) *http.Request {
	t.Helper()
	form := url.Values{"CallSid": {"CA123"}}
	r := httptest.NewRequest("POST", "https://api.example.com/webhooks/twilio/voice",
		strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("X-Forwarded-Proto", "https")
	if sign {
		r.Header.Set("X-Twilio-Signature",
			signPayload(token, "https://api.example.com/webhooks/twilio/voice", form))
	}
	return r
}

func runSignatureMiddleware(token string, r *http.Request) int {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	router := gin.New()
	router.POST("/webhooks/twilio/voice", RequireSignature(token), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.ServeHTTP(w, r)
	return w.Code
}

func TestRequireSignature(t *testing.T) {
	token := "secret-token"

	if code := runSignatureMiddleware(token, signedWebhookRequest(t, token, true)); code != http.StatusOK {
		t.Fatalf("signed request: status %d", code)
	}
	if code := runSignatureMiddleware(token, signedWebhookRequest(t, token, false)); code != http.StatusForbidden {
		t.Fatalf("unsigned request: status %d, want 403", code)
	}
	// Without a configured token the middleware is a pass-through.
	if code := runSignatureMiddleware("", signedWebhookRequest(t, token, false)); code != http.StatusOK {
		t.Fatalf("no-token posture: status %d", code)
	}
}
