package main

import (
	"encoding/json"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/lead-tracker/internal/model"
)

// printCompanies renders companies as a table, JSON or YAML.
func printCompanies(w io.Writer, format string, companies []model.CompanyData) error {
	if companies == nil {
		companies = []model.CompanyData{}
	}
	switch strings.ToLower(format) {
	case "", "table":
		formatCompanyTable(w, companies)
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(companies)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(companies); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return enc.Close()
	}
	return eris.Errorf("unknown output format %q (table, json, yaml)", format)
}

// formatCompanyTable writes a tabular list of companies to out.
func formatCompanyTable(out io.Writer, companies []model.CompanyData) {
	p := message.NewPrinter(language.English)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = p.Fprintln(w, "#\tCOMPANY\tLOCATION\tZIPCODE\tEMPLOYEES\tREVENUE\tWEBSITE\tSALES REP\tLAST CONTACTED\tPURCHASED")

	for i, c := range companies {
		_, _ = p.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			truncate(c.Company, 30),
			location(c),
			c.Zipcode,
			p.Sprintf("%d", c.Employees),
			formatRevenue(p, c.Revenue),
			c.Website,
			c.SalesRep,
			c.LastContacted,
			check(c.Purchased),
		)
	}
	_ = w.Flush()
}

func location(c model.CompanyData) string {
	var parts []string
	for _, s := range []string{c.City, c.State, c.Country} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// formatRevenue renders revenue with a dollar sign and grouping; cents are
// shown only when present. Zero renders empty.
func formatRevenue(p *message.Printer, v float64) string {
	if v == 0 {
		return ""
	}
	if v == math.Trunc(v) {
		return p.Sprintf("$%.0f", v)
	}
	return p.Sprintf("$%.2f", v)
}

func check(b bool) string {
	if b {
		return "✓"
	}
	return "✗"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}
