package amazon

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// signer implements the AWS Signature Version 4 signing scheme for
// ProductAdvertisingAPI requests. Only the pieces PA-API needs are
// implemented: POST with a JSON payload and a fixed header set.
type signer struct {
	accessKey string
	secretKey string
	region    string
	service   string
}

const amzDateFormat = "20060102T150405Z"

// sign adds the X-Amz-Date and Authorization headers to req. payload must
// be the exact request body bytes.
func (s *signer) sign(req *http.Request, payload []byte, now time.Time) {
	amzDate := now.UTC().Format(amzDateFormat)
	dateStamp := amzDate[:8]

	req.Header.Set("X-Amz-Date", amzDate)

	canonicalHeaders, signedHeaders := canonicalizeHeaders(req)

	canonicalRequest := strings.Join([]string{
		req.Method,
		canonicalURI(req.URL),
		req.URL.Query().Encode(),
		canonicalHeaders,
		signedHeaders,
		hashHex(payload),
	}, "\n")

	scope := strings.Join([]string{dateStamp, s.region, s.service, "aws4_request"}, "/")

	stringToSign := strings.Join([]string{
		"AWS4-HMAC-SHA256",
		amzDate,
		scope,
		hashHex([]byte(canonicalRequest)),
	}, "\n")

	key := []byte("AWS4" + s.secretKey)
	for _, part := range []string{dateStamp, s.region, s.service, "aws4_request"} {
		key = hmacSHA256(key, part)
	}
	signature := hex.EncodeToString(hmacSHA256(key, stringToSign))

	req.Header.Set("Authorization", fmt.Sprintf(
		"AWS4-HMAC-SHA256 Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		s.accessKey, scope, signedHeaders, signature,
	))
}

func canonicalURI(u *url.URL) string {
	if u.Path == "" {
		return "/"
	}
	return u.Path
}

// canonicalizeHeaders returns the canonical header block and the
// semicolon-joined signed header list, both in lowercase sorted order.
func canonicalizeHeaders(req *http.Request) (string, string) {
	names := make([]string, 0, len(req.Header)+1)
	values := map[string]string{"host": req.Host}
	if values["host"] == "" {
		values["host"] = req.URL.Host
	}
	names = append(names, "host")

	for name := range req.Header {
		lower := strings.ToLower(name)
		names = append(names, lower)
		values[lower] = strings.TrimSpace(req.Header.Get(name))
	}
	sort.Strings(names)

	var b strings.Builder
	for _, n := range names {
		b.WriteString(n)
		b.WriteByte(':')
		b.WriteString(values[n])
		b.WriteByte('\n')
	}

	return b.String(), strings.Join(names, ";")
}

func hashHex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func hmacSHA256(key []byte, data string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(data))
	return mac.Sum(nil)
}
