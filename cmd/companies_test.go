package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/lead-tracker/internal/leads"
	"github.com/sells-group/lead-tracker/internal/market"
	"github.com/sells-group/lead-tracker/internal/model"
	"github.com/sells-group/lead-tracker/internal/validate"
)

func TestDescribeSubmit(t *testing.T) {
	c := model.CompanyData{Company: "Tech Corp"}
	assert.Equal(t, "added entry #3 (Tech Corp)",
		describeSubmit(leads.SubmitResult{Index: 2, Company: c}))
	assert.Equal(t, "updated entry #1 (Tech Corp)",
		describeSubmit(leads.SubmitResult{WasUpdated: true, Index: 0, Company: c}))
}

func TestPrintImportReport(t *testing.T) {
	var buf bytes.Buffer
	printImportReport(&buf, leads.ImportReport{
		Added:   2,
		Updated: 1,
		Rejected: []leads.RejectedRow{
			{Row: 4, Errors: validate.Errors{
				{Field: "company", Message: validate.MsgCompanyRequired},
			}},
		},
	})

	assert.Equal(t,
		"added: 2, updated: 1, rejected: 1\nrow 4:\n  company: "+validate.MsgCompanyRequired+"\n",
		buf.String())
}

func TestPrintDashboard(t *testing.T) {
	var buf bytes.Buffer
	printDashboard(&buf, "BTCUSDT", market.Dashboard{
		Price: []market.PricePoint{
			{Timestamp: 1, ClosePrice: 61000},
			{Timestamp: 2, ClosePrice: 63250.5},
			{Timestamp: 3, ClosePrice: 62000.25},
		},
		Scatter: []market.ScatterPoint{{Volume: 10, PriceVolatility: 1.5}},
	})

	out := buf.String()
	assert.Contains(t, out, "BTCUSDT latest close: $62,000.25")
	assert.Contains(t, out, "3-day range: $61,000.00 to $63,250.50")
	assert.Contains(t, out, "volume/volatility points: 1")
}

func TestPrintDashboard_Errors(t *testing.T) {
	var buf bytes.Buffer
	printDashboard(&buf, "BTCUSDT", market.Dashboard{
		PriceError:   "failed to fetch Bitcoin data: 503 Service Unavailable",
		ScatterError: "boom",
	})

	out := buf.String()
	assert.Contains(t, out, "price: failed to fetch Bitcoin data: 503 Service Unavailable")
	assert.Contains(t, out, "scatter: boom")
	assert.NotContains(t, out, "latest close")
}
