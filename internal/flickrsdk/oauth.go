package flickrsdk

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// signer adds OAuth 1.0a HMAC-SHA1 parameters to a request.
type signer struct {
	consumerKey    string
	consumerSecret string
	token          string
	tokenSecret    string

	now   func() time.Time
	nonce func() string
}

func newSigner(consumerKey, consumerSecret string) *signer {
	return &signer{
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		now:            time.Now,
		nonce: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")
		},
	}
}

func (s *signer) setToken(token, tokenSecret string) {
	s.token = token
	s.tokenSecret = tokenSecret
}

// sign returns a copy of params with the oauth parameters and the signature
// added. params must hold every non-file parameter of the request.
func (s *signer) sign(method, rawURL string, params url.Values) (url.Values, error) {
	signed := url.Values{}
	for k, v := range params {
		signed[k] = append([]string(nil), v...)
	}

	signed.Set("oauth_consumer_key", s.consumerKey)
	signed.Set("oauth_nonce", s.nonce())
	signed.Set("oauth_signature_method", "HMAC-SHA1")
	signed.Set("oauth_timestamp", strconv.FormatInt(s.now().Unix(), 10))
	signed.Set("oauth_version", "1.0")
	if s.token != "" {
		signed.Set("oauth_token", s.token)
	}

	base, err := signatureBase(method, rawURL, signed)
	if err != nil {
		return nil, err
	}

	key := percentEncode(s.consumerSecret) + "&" + percentEncode(s.tokenSecret)
	mac := hmac.New(sha1.New, []byte(key))
	mac.Write([]byte(base))
	signed.Set("oauth_signature", base64.StdEncoding.EncodeToString(mac.Sum(nil)))

	return signed, nil
}

// signatureBase builds the RFC 5849 signature base string. Query parameters
// already present in rawURL are folded into the parameter list.
func signatureBase(method, rawURL string, params url.Values) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	all := url.Values{}
	for k, v := range u.Query() {
		all[k] = append(all[k], v...)
	}
	for k, v := range params {
		all[k] = append(all[k], v...)
	}

	type pair struct{ k, v string }
	encoded := make([]pair, 0, len(all))
	for k, vs := range all {
		for _, v := range vs {
			encoded = append(encoded, pair{percentEncode(k), percentEncode(v)})
		}
	}
	sort.Slice(encoded, func(i, j int) bool {
		if encoded[i].k != encoded[j].k {
			return encoded[i].k < encoded[j].k
		}
		return encoded[i].v < encoded[j].v
	})

	pairs := make([]string, len(encoded))
	for i, p := range encoded {
		pairs[i] = p.k + "=" + p.v
	}

	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Host)
	if (scheme == "http" && strings.HasSuffix(host, ":80")) || (scheme == "https" && strings.HasSuffix(host, ":443")) {
		host = host[:strings.LastIndex(host, ":")]
	}
	baseURL := scheme + "://" + host + u.EscapedPath()

	return strings.ToUpper(method) + "&" + percentEncode(baseURL) + "&" + percentEncode(strings.Join(pairs, "&")), nil
}

// percentEncode escapes everything except the RFC 3986 unreserved set.
func percentEncode(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z') || ('0' <= c && c <= '9') ||
			c == '-' || c == '.' || c == '_' || c == '~' {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&15])
	}
	return b.String()
}
