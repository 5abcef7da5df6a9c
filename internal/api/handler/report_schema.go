package handler

import "github.com/melrifa1/no1-service-tracker/internal/core/ports"

type reportRowResponse struct {
	UserID            string `json:"user_id"`
	Username          string `json:"username"`
	ServicePercentage int    `json:"service_percentage"`
	LogCount          int64  `json:"log_count"`
	QtySum            int64  `json:"qty_sum"`
	TipCentsSum       int64  `json:"tip_cents_sum"`
	AmountCentsSum    int64  `json:"amount_cents_sum"`
	NetCents          int64  `json:"net_cents"`
}

type reportTotalsResponse struct {
	LogCount       int64 `json:"log_count"`
	QtySum         int64 `json:"qty_sum"`
	TipCentsSum    int64 `json:"tip_cents_sum"`
	AmountCentsSum int64 `json:"amount_cents_sum"`
	NetCents       int64 `json:"net_cents"`
}

type reportResponse struct {
	Rows   []reportRowResponse  `json:"rows"`
	Totals reportTotalsResponse `json:"totals"`
}

// toReportResponse maps the service result to the HTTP response.
func toReportResponse(r *ports.ReportResult) reportResponse {
	rows := make([]reportRowResponse, 0, len(r.Rows))
	for _, row := range r.Rows {
		rows = append(rows, reportRowResponse{
			UserID:            row.UserID.String(),
			Username:          row.Username,
			ServicePercentage: row.ServicePercentage,
			LogCount:          row.LogCount,
			QtySum:            row.QtySum,
			TipCentsSum:       row.TipCentsSum,
			AmountCentsSum:    row.AmountCentsSum,
			NetCents:          row.NetCents,
		})
	}
	return reportResponse{
		Rows: rows,
		Totals: reportTotalsResponse{
			LogCount:       r.Totals.LogCount,
			QtySum:         r.Totals.QtySum,
			TipCentsSum:    r.Totals.TipCentsSum,
			AmountCentsSum: r.Totals.AmountCentsSum,
			NetCents:       r.Totals.NetCents,
		},
	}
}
