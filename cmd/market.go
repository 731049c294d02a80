package main

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/lead-tracker/internal/market"
)

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Show the Bitcoin price summary and volatility sample size",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := initEnv(cfg, "cli")
		if err != nil {
			return err
		}
		defer env.Close()

		d := env.Market.Dashboard(cmd.Context())
		printDashboard(cmd.OutOrStdout(), cfg.Market.Symbol, d)
		if d.PriceError != "" && d.ScatterError != "" {
			return eris.New("market data unavailable")
		}
		return nil
	},
}

func printDashboard(w io.Writer, symbol string, d market.Dashboard) {
	p := message.NewPrinter(language.English)
	if d.PriceError != "" {
		p.Fprintf(w, "price: %s\n", d.PriceError)
	} else {
		s := market.Summarize(d.Price)
		p.Fprintf(w, "%s latest close: $%.2f\n", symbol, s.Latest)
		p.Fprintf(w, "%d-day range: $%.2f to $%.2f\n", s.Points, s.Low, s.High)
	}
	if d.ScatterError != "" {
		p.Fprintf(w, "scatter: %s\n", d.ScatterError)
	} else {
		p.Fprintf(w, "volume/volatility points: %d\n", len(d.Scatter))
	}
}

func init() {
	rootCmd.AddCommand(marketCmd)
}
