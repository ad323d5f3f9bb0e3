package ai

import (
	"context"
	"fmt"
	"sort"
	"time"

	"app/models"
	"app/store"
)

const (
	// minForecastOrders is the minimum order history for a model fit.
	minForecastOrders = 7
	// forecastWindowDays is how far back the forecaster looks.
	forecastWindowDays = 90
)

// PredictSales fits a linear model over the shop's daily sales and projects
// revenue daysAhead days past the last observed date. Predictions are clamped
// to zero; the fit is deterministic for identical order data.
func (s *Services) PredictSales(ctx context.Context, shopID string, daysAhead int) (*models.SalesForecast, error) {
	if daysAhead <= 0 {
		daysAhead = 7
	}

	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -forecastWindowDays)

	orders, err := s.store.FindOrders(ctx, shopID, store.OrderFilter{
		CreatedAfter:  &startDate,
		CreatedBefore: &endDate,
		ExcludeStatus: models.OrderStatusCancelled,
	})
	if err != nil {
		return nil, err
	}

	if len(orders) < minForecastOrders {
		return nil, &InsufficientDataError{
			MinimumRequired:   minForecastOrders,
			CurrentDataPoints: len(orders),
		}
	}

	// Aggregate into daily revenue, keyed by calendar date.
	daily := make(map[time.Time]float64)
	for _, o := range orders {
		day := dateOnly(o.CreatedAt)
		daily[day] += o.TotalAmount
	}

	dates := make([]time.Time, 0, len(daily))
	for d := range daily {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	amounts := make([]float64, len(dates))
	X := make([][]float64, len(dates))
	for i, d := range dates {
		amounts[i] = daily[d]
		X[i] = calendarFeatures(i, d)
	}

	sc := fitScaler(X)
	scaled := make([][]float64, len(X))
	for i, row := range X {
		scaled[i] = sc.transform(row)
	}
	model := fitOLS(scaled, amounts)

	lastDate := dates[len(dates)-1]
	predictions := make([]models.ForecastPoint, 0, daysAhead)
	var predictedTotal float64

	for i := 1; i <= daysAhead; i++ {
		futureDate := lastDate.AddDate(0, 0, i)
		feature := calendarFeatures(len(dates)+i-1, futureDate)
		prediction := model.predict(sc.transform(feature))
		if prediction < 0 {
			prediction = 0
		}
		predictedTotal += prediction
		predictions = append(predictions, models.ForecastPoint{
			Date:           futureDate.Format("2006-01-02"),
			PredictedSales: round2(prediction),
			DayName:        futureDate.Weekday().String(),
			Confidence:     "medium",
		})
	}

	recentAvg := mean(amounts[maxInt(0, len(amounts)-7):])
	trend := "fall"
	if predictedTotal > recentAvg*float64(daysAhead) {
		trend = "rise"
	}

	return &models.SalesForecast{
		ShopID:                shopID,
		PredictionPeriod:      fmt.Sprintf("%d days", daysAhead),
		Predictions:           predictions,
		TotalPredicted:        round2(predictedTotal),
		AverageDailyPredicted: round2(predictedTotal / float64(daysAhead)),
		RecentAverage:         round2(recentAvg),
		Trend:                 trend,
		ConfidenceLevel:       "medium",
		DataPointsUsed:        len(orders),
		PeriodAnalyzed:        fmt.Sprintf("%s to %s", startDate.Format("2006-01-02"), endDate.Format("2006-01-02")),
	}, nil
}

// calendarFeatures builds the feature vector for one day: sequential index,
// day-of-week (0=Monday), day-of-month, weekend flag.
func calendarFeatures(index int, d time.Time) []float64 {
	dow := mondayWeekday(d)
	weekend := 0.0
	if dow >= 5 {
		weekend = 1.0
	}
	return []float64{float64(index), float64(dow), float64(d.Day()), weekend}
}

// mondayWeekday maps time.Weekday (Sunday=0) onto 0=Monday..6=Sunday.
func mondayWeekday(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
