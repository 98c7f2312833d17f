package model

import "time"

// MarketIndicators holds the technical indicators computed for one symbol.
type MarketIndicators struct {
	Symbol       string
	AsOf         time.Time
	CurrentPrice float64
	MA200        float64
	MA20w        float64
	MA50w        float64
	WeeklyRSI    float64
	DailyRSI     float64
	High52w      float64
	Low52w       float64
	High30d      float64
	Low30d       float64
	Position52w  float64 // 0.0 ~ 1.0
}
