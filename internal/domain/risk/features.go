package risk

// FeatureInputs carries the aggregator-derived facts needed to build the
// model's feature vector. All aggregator lookups are resolved by the
// caller before vector construction; there is no concurrent or
// asynchronous work left for feature extraction itself.
type FeatureInputs struct {
	NewGeolocation bool
	NewDevice      bool
}

// FeatureVector builds the fixed, ordered 10-element feature vector
// consumed by the model scorer.
func FeatureVector(tx Transaction, profile UserRiskProfile, in FeatureInputs) [10]float64 {
	amount, _ := tx.Amount.Amount.Float64()
	avg, _ := profile.AverageTransactionAmount.Amount.Float64()

	newGeo := 0.0
	if in.NewGeolocation {
		newGeo = 1.0
	}
	newDevice := 0.0
	if in.NewDevice {
		newDevice = 1.0
	}

	denom := avg
	if denom < 1 {
		denom = 1
	}

	return [10]float64{
		amount,
		float64(HourOfDay(tx.Timestamp)),
		float64(DayOfWeek(tx.Timestamp)),
		float64(profile.AccountAgeDays),
		float64(profile.TotalTransactions),
		avg,
		float64(profile.FailedAttempts24h),
		newGeo,
		newDevice,
		DeviationRatio(amount, denom),
	}
}

// FeatureNames is the canonical, fixed-order name vector matching
// FeatureVector's layout. A loaded artifact carries its own feature-name
// list, which is not compared against this one.
var FeatureNames = [10]string{
	"transaction_amount",
	"hour_of_day",
	"day_of_week",
	"account_age_days",
	"total_transactions",
	"average_transaction_amount",
	"failed_attempts_24h",
	"new_geolocation",
	"new_device",
	"amount_deviation_ratio",
}
