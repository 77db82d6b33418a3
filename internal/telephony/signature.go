package telephony

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"net/url"
	"sort"

	"github.com/gin-gonic/gin"
)

// ValidSignature checks a webhook's X-Twilio-Signature: base64 of the
// HMAC-SHA1 over the full request URL followed by each POST parameter name
// and value in lexicographic parameter order.
// Ref: https://www.twilio.com/docs/usage/security#validating-requests
func ValidSignature(authToken, fullURL string, form url.Values, signature string) bool {
	if authToken == "" || signature == "" {
		return false
	}

	names := make([]string, 0, len(form))
	for name := range form {
		names = append(names, name)
	}
	sort.Strings(names)

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(fullURL))
	for _, name := range names {
		for _, value := range form[name] {
			mac.Write([]byte(name))
			mac.Write([]byte(value))
		}
	}
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// RequireSignature rejects webhook posts whose signature does not verify
// against the account auth token. With an empty token the middleware is a
// pass-through, so local development works without provider credentials.
func RequireSignature(authToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authToken == "" {
			c.Next()
			return
		}
		if err := c.Request.ParseForm(); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "malformed form body"})
			return
		}
		sig := c.GetHeader("X-Twilio-Signature")
		if !ValidSignature(authToken, requestURL(c.Request), c.Request.PostForm, sig) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid signature"})
			return
		}
		c.Next()
	}
}

// requestURL reconstructs the public URL the provider signed. Behind a
// proxy the original scheme arrives in X-Forwarded-Proto.
func requestURL(r *http.Request) string {
	scheme := r.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		if r.TLS != nil {
			scheme = "https"
		} else {
			scheme = "http"
		}
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
