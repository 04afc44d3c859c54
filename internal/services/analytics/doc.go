/*
Package analytics computes the back-office dashboard and the relationship
rollups shown on entity listings.

It is a read-only layer over a Store:

  - Calculator evaluates count and sum metrics over time windows.
  - PercentChange compares the same metric across two windows.
  - Ranker groups transactions by merchant and keeps the top N.
  - RollupCounter attaches derived child counts to parent listings.
  - Assembler merges all of the above into a Report of metric cards.

Usage:

	svc := analytics.NewService(store, analytics.Config{CurrencySymbol: "₱", TopMerchants: 3}, time.Now)
	report, err := svc.BuildReport(ctx)

Windows are computed from an injected clock, never from ambient time, so a
report is a pure function of the store contents and the clock reading.

Error Handling:

  - ErrInvalidWindow: a window whose end is not after its start
  - ErrInvalidQuery: unknown metric fields or listing parameters
  - ErrDataUnavailable: wraps any store failure; the report is not returned
*/
package analytics
