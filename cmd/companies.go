package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-tracker/internal/leads"
	"github.com/sells-group/lead-tracker/internal/tabular"
	"github.com/sells-group/lead-tracker/internal/validate"
)

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "Manage the company lead collection",
}

// -- companies list --

var listOutput string

var companiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked companies",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := initEnv(cfg, "cli")
		if err != nil {
			return err
		}
		defer env.Close()

		env.load(cmd.Context())
		snap := env.Store.Snapshot()
		if snap.Error != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", snap.Error)
		}
		return printCompanies(cmd.OutOrStdout(), listOutput, snap.Companies)
	},
}

// -- companies add --

var addForm validate.CompanyForm
var addEmployees, addRevenue string

var companiesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a company, or update the entry it matches",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := initEnv(cfg, "cli")
		if err != nil {
			return err
		}
		defer env.Close()

		env.load(cmd.Context())

		form := addForm
		form.Employees = validate.Number(addEmployees)
		form.Revenue = validate.Number(addRevenue)

		res, err := env.Leads.Submit(cmd.Context(), form)
		if err != nil {
			var errs validate.Errors
			if errors.As(err, &errs) {
				printFieldErrors(cmd.ErrOrStderr(), errs)
			}
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), describeSubmit(res))
		return nil
	},
}

// describeSubmit reports an upsert with a 1-based entry number.
func describeSubmit(res leads.SubmitResult) string {
	if res.WasUpdated {
		return fmt.Sprintf("updated entry #%d (%s)", res.Index+1, res.Company.Company)
	}
	return fmt.Sprintf("added entry #%d (%s)", res.Index+1, res.Company.Company)
}

func printFieldErrors(w io.Writer, errs validate.Errors) {
	for _, e := range errs {
		fmt.Fprintf(w, "  %s: %s\n", e.Field, e.Message)
	}
}

// -- companies import --

var importPath string

var companiesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import companies from a CSV or XLSX file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		forms, err := tabular.ReadFile(ctx, importPath)
		if err != nil {
			return eris.Wrap(err, "companies import")
		}

		env, err := initEnv(cfg, "cli")
		if err != nil {
			return err
		}
		defer env.Close()

		env.load(ctx)

		report, err := env.Leads.Import(ctx, forms)
		if err != nil {
			return eris.Wrap(err, "companies import")
		}
		printImportReport(cmd.OutOrStdout(), report)
		return nil
	},
}

func printImportReport(w io.Writer, r leads.ImportReport) {
	fmt.Fprintf(w, "added: %d, updated: %d, rejected: %d\n", r.Added, r.Updated, len(r.Rejected))
	for _, rej := range r.Rejected {
		fmt.Fprintf(w, "row %d:\n", rej.Row)
		printFieldErrors(w, rej.Errors)
	}
}

// -- companies export --

var exportPath string

var companiesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export companies to a CSV or XLSX file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := initEnv(cfg, "cli")
		if err != nil {
			return err
		}
		defer env.Close()

		env.load(cmd.Context())
		companies := env.Store.Companies()
		if err := tabular.WriteFile(exportPath, companies); err != nil {
			return eris.Wrap(err, "companies export")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported %d companies to %s\n", len(companies), exportPath)
		return nil
	},
}

// -- companies reset --

var companiesResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard local data and fetch a fresh set of companies",
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := initEnv(cfg, "cli")
		if err != nil {
			return err
		}
		defer env.Close()

		env.Store.Hydrate(cmd.Context())
		if err := env.Leads.Reset(cmd.Context()); err != nil {
			return eris.Wrapf(err, "companies reset (kept %d existing)", env.Store.Len())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "loaded %d companies\n", env.Store.Len())
		return nil
	},
}

func init() {
	companiesListCmd.Flags().StringVarP(&listOutput, "output", "o", "table", "output format (table, json, yaml)")

	f := companiesAddCmd.Flags()
	f.StringVar(&addForm.Company, "company", "", "company name")
	f.StringVar(&addForm.Country, "country", "", "country")
	f.StringVar(&addForm.State, "state", "", "state")
	f.StringVar(&addForm.City, "city", "", "city")
	f.StringVar(&addForm.Zipcode, "zipcode", "", "US zipcode (12345 or 12345-6789)")
	f.StringVar(&addEmployees, "employees", "", "employee count")
	f.StringVar(&addRevenue, "revenue", "", "annual revenue")
	f.StringVar(&addForm.Website, "website", "", "website URL")
	f.StringVar(&addForm.SalesRep, "sales-rep", "", "sales representative")
	f.StringVar(&addForm.LastContacted, "last-contacted", "", "last contacted date")
	f.BoolVar(&addForm.Purchased, "purchased", false, "whether the company purchased")
	f.StringVar(&addForm.Notes, "notes", "", "free-form notes")

	companiesImportCmd.Flags().StringVar(&importPath, "file", "", "path to .csv or .xlsx file (required)")
	_ = companiesImportCmd.MarkFlagRequired("file")

	companiesExportCmd.Flags().StringVar(&exportPath, "file", "", "path to .csv or .xlsx file (required)")
	_ = companiesExportCmd.MarkFlagRequired("file")

	companiesCmd.AddCommand(companiesListCmd)
	companiesCmd.AddCommand(companiesAddCmd)
	companiesCmd.AddCommand(companiesImportCmd)
	companiesCmd.AddCommand(companiesExportCmd)
	companiesCmd.AddCommand(companiesResetCmd)
	rootCmd.AddCommand(companiesCmd)
}
