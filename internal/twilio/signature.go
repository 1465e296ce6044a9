package twilio

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/http"
	"sort"
	"strings"
)

// SignatureHeader carries the provider's request signature on inbound webhooks.
const SignatureHeader = "X-Twilio-Signature"

// Validator recomputes Twilio's canonical request signature: the full
// public URL concatenated with every POST parameter (sorted by name),
// HMAC-SHA1 signed with the account's auth token and base64 encoded.
type Validator struct {
	authToken string
}

func NewValidator(authToken string) *Validator {
	return &Validator{authToken: authToken}
}

// Validate reports whether signature matches the expected signature for
// the given URL and form parameters. Comparison is constant time.
func (v *Validator) Validate(url string, params map[string]string, signature string) bool {
	if signature == "" {
		return false
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(url)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(params[k])
	}

	mac := hmac.New(sha1.New, []byte(v.authToken))
	mac.Write([]byte(b.String()))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// ValidateRequest checks the signature header of an inbound webhook
// request. baseURL is the public origin Twilio was configured with; the
// request's path and query complete the signed URL. The request's form
// must already be parsed.
func (v *Validator) ValidateRequest(baseURL string, r *http.Request) bool {
	signature := r.Header.Get(SignatureHeader)
	if signature == "" {
		return false
	}

	params := make(map[string]string, len(r.PostForm))
	for k, vals := range r.PostForm {
		if len(vals) > 0 {
			params[k] = vals[0]
		}
	}

	url := strings.TrimSuffix(baseURL, "/") + r.URL.RequestURI()
	return v.Validate(url, params, signature)
}
