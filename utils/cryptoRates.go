package utils

import (
	"cryptovest/config"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var ratesClient = resty.New().SetTimeout(10 * time.Second)

// Symbols the rate lookup understands without an explicit mapping.
var coinIDs = map[string]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"USDT": "tether",
	"BNB":  "binancecoin",
	"SOL":  "solana",
	"XRP":  "ripple",
	"ADA":  "cardano",
	"DOGE": "dogecoin",
}

// GetCoinRateUSD fetches the current USD price for a coin symbol from the
// configured rates API (CoinGecko simple-price shape).
func GetCoinRateUSD(coinName string) (float64, error) {
	coinID, ok := coinIDs[strings.ToUpper(coinName)]
	if !ok {
		coinID = strings.ToLower(coinName)
	}

	var result map[string]map[string]float64
	resp, err := ratesClient.R().
		SetQueryParams(map[string]string{
			"ids":           coinID,
			"vs_currencies": "usd",
		}).
		SetResult(&result).
		Get(config.AppConfig.RatesApiURL)
	if err != nil {
		return 0, fmt.Errorf("rate lookup failed: %w", err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("rate lookup failed with status %d", resp.StatusCode())
	}

	rate, ok := result[coinID]["usd"]
	if !ok || rate <= 0 {
		return 0, fmt.Errorf("no USD rate for %s", coinName)
	}
	return rate, nil
}

// ConvertUSDToCoin converts a USD amount into coin units at the current rate.
func ConvertUSDToCoin(amountUSD float64, coinName string) (float64, error) {
	rate, err := GetCoinRateUSD(coinName)
	if err != nil {
		return 0, err
	}
	return amountUSD / rate, nil
}
