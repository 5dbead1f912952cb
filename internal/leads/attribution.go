package leads

import "net/url"

// ParseAttribution extracts campaign tags from the referring URL's query
// string. Returns nil when the referer is absent, unparseable, or carries
// no recognized tag.
func ParseAttribution(referer string) *Attribution {
	if referer == "" {
		return nil
	}

	parsed, err := url.Parse(referer)
	if err != nil {
		return nil
	}

	query := parsed.Query()
	attribution := &Attribution{
		UTMSource:   query.Get("utm_source"),
		UTMMedium:   query.Get("utm_medium"),
		UTMCampaign: query.Get("utm_campaign"),
		UTMTerm:     query.Get("utm_term"),
		UTMContent:  query.Get("utm_content"),
		GclID:       query.Get("gclid"),
		FbclID:      query.Get("fbclid"),
	}

	if *attribution == (Attribution{}) {
		return nil
	}
	return attribution
}
