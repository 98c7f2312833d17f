package collector

import (
	"time"
	_ "time/tzdata"

	log "github.com/sirupsen/logrus"
)

// exchangeLocation resolves the zone a provider reports for an exchange.
// Daily bars are stamped at the session open, so dates must be read in this
// zone. An unknown zone name falls back to the fixed GMT offset in seconds.
func exchangeLocation(name string, gmtOffset int) *time.Location {
	if name != "" {
		loc, err := time.LoadLocation(name)
		if err == nil {
			return loc
		}
		log.WithField("zone", name).Debugf("load exchange zone: %v, using offset %ds", err, gmtOffset)
	}
	if gmtOffset != 0 {
		return time.FixedZone("", gmtOffset)
	}
	return time.UTC
}
