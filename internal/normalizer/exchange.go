package normalizer

import (
	"strings"
	"time"
	_ "time/tzdata"
)

// exchangeTimezoneKey holds the IANA zone of the listing exchange in both chart meta
// and quote info. The short "timezone" key is an abbreviation and is ignored.
const exchangeTimezoneKey = "exchangeTimezoneName"

// ExchangeLocation returns the listing exchange's timezone from info, or UTC when
// the provider gave none or an unknown zone.
func ExchangeLocation(info map[string]any) *time.Location {
	name, _ := info[exchangeTimezoneKey].(string)
	if name = strings.TrimSpace(name); name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
