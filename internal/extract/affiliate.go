package extract

import "net/url"

// ToAffiliateURL rewrites a product URL to credit the configured partner. It is
// deliberately decoupled from extraction so monetization can change without
// touching parsing. Unparseable input is returned untouched.
func ToAffiliateURL(rawURL, partnerID string) string {
	if rawURL == "" || partnerID == "" {
		return rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	q := u.Query()
	q.Set("partner", partnerID)
	u.RawQuery = q.Encode()
	return u.String()
}
