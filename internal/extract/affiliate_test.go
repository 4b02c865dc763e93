package extract

import "testing"

func TestToAffiliateURL(t *testing.T) {
	t.Parallel()

	got := ToAffiliateURL("https://www.coupang.com/vp/products/1001", "pt-42")
	if got != "https://www.coupang.com/vp/products/1001?partner=pt-42" {
		t.Fatalf("unexpected affiliate url: %s", got)
	}

	// Existing query parameters survive.
	got = ToAffiliateURL("https://www.coupang.com/vp/products/1001?itemId=7", "pt-42")
	if got != "https://www.coupang.com/vp/products/1001?itemId=7&partner=pt-42" {
		t.Fatalf("query not preserved: %s", got)
	}

	if got := ToAffiliateURL("https://example.com/p", ""); got != "https://example.com/p" {
		t.Fatalf("empty partner must be a no-op, got %s", got)
	}
	if got := ToAffiliateURL("", "pt-42"); got != "" {
		t.Fatalf("empty url must stay empty, got %s", got)
	}
}
