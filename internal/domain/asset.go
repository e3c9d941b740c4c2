package domain

// Asset identifies one of the tracked tokens.
type Asset string

const (
	AssetAKT   Asset = "akt"
	AssetSPICE Asset = "spice"
)

// Currency is a quote currency code.
type Currency string

const (
	CurrencyUSD Currency = "usd"
	CurrencySEK Currency = "sek"
)

// Assets returns the fixed set of tracked assets, in display order.
func Assets() []Asset { return []Asset{AssetAKT, AssetSPICE} }

// Currencies returns the fixed set of quote currencies.
func Currencies() []Currency { return []Currency{CurrencyUSD, CurrencySEK} }

func IsSupportedAsset(a Asset) bool {
	return a == AssetAKT || a == AssetSPICE
}

func IsSupportedCurrency(c Currency) bool {
	return c == CurrencyUSD || c == CurrencySEK
}
