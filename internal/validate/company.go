// Package validate checks submitted company forms before they reach the
// store. Failures are reported per field; a rejected form never touches the
// collection.
package validate

import (
	"encoding/json"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-tracker/internal/model"
)

// Field error messages.
const (
	MsgCompanyRequired       = "Company name is required"
	MsgCountryRequired       = "Country is required"
	MsgStateRequired         = "State is required"
	MsgCityRequired          = "City is required"
	MsgZipcodeFormat         = "Invalid US zipcode format (e.g., 12345 or 12345-6789)"
	MsgEmployeesNumber       = "Employees must be a number"
	MsgEmployeesInteger      = "Employees must be a whole number"
	MsgEmployeesPositive     = "Employees must be a positive number"
	MsgRevenueNumber         = "Revenue must be a number"
	MsgRevenuePositive       = "Revenue must be a positive number"
	MsgWebsiteURL            = "Invalid URL format"
	MsgSalesRepRequired      = "Sales representative name is required"
	MsgLastContactedRequired = "Last contacted date is required"
)

var zipcodeRe = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// FieldError is a validation failure on a single form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the set of field failures for one submission, in form order.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the message recorded for the named field, or "".
func (e Errors) Field(name string) string {
	for _, fe := range e {
		if fe.Field == name {
			return fe.Message
		}
	}
	return ""
}

// Fields returns the names of the failing fields.
func (e Errors) Fields() []string {
	names := make([]string, len(e))
	for i, fe := range e {
		names[i] = fe.Field
	}
	return names
}

// Number is a form value that may arrive as a JSON number or a numeric
// string ("75"). The raw text is kept so parsing happens during validation.
type Number string

// UnmarshalJSON accepts numbers, strings and null.
func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return eris.Wrap(err, "validate: decode number string")
		}
		*n = Number(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return eris.Wrap(err, "validate: decode number")
	}
	*n = Number(num.String())
	return nil
}

// CompanyForm is a company submission as entered by a user or read from an
// import file. Numeric fields are coerced during validation.
type CompanyForm struct {
	Company       string `json:"company"`
	Country       string `json:"country"`
	State         string `json:"state"`
	City          string `json:"city"`
	Zipcode       string `json:"zipcode"`
	Employees     Number `json:"employees"`
	Revenue       Number `json:"revenue"`
	Website       string `json:"website"`
	SalesRep      string `json:"sales_rep"`
	LastContacted string `json:"last_contacted"`
	Purchased     bool   `json:"purchased"`
	Notes         string `json:"notes"`
}

// FormFromCompany converts an existing record back into form input.
func FormFromCompany(c model.CompanyData) CompanyForm {
	return CompanyForm{
		Company:       c.Company,
		Country:       c.Country,
		State:         c.State,
		City:          c.City,
		Zipcode:       c.Zipcode,
		Employees:     Number(strconv.Itoa(c.Employees)),
		Revenue:       Number(strconv.FormatFloat(c.Revenue, 'f', -1, 64)),
		Website:       c.Website,
		SalesRep:      c.SalesRep,
		LastContacted: c.LastContacted,
		Purchased:     c.Purchased,
		Notes:         c.Notes,
	}
}

// Company validates and coerces a form into a record. On failure the
// returned error is Errors.
func Company(f CompanyForm) (model.CompanyData, error) {
	var errs Errors
	add := func(field, msg string) {
		errs = append(errs, FieldError{Field: field, Message: msg})
	}

	required := []struct {
		field, value, msg string
	}{
		{"company", f.Company, MsgCompanyRequired},
		{"country", f.Country, MsgCountryRequired},
		{"state", f.State, MsgStateRequired},
		{"city", f.City, MsgCityRequired},
	}
	for _, r := range required {
		if r.value == "" {
			add(r.field, r.msg)
		}
	}

	if !zipcodeRe.MatchString(f.Zipcode) {
		add("zipcode", MsgZipcodeFormat)
	}

	employees, msg := parseEmployees(string(f.Employees))
	if msg != "" {
		add("employees", msg)
	}

	revenue, msg := parseRevenue(string(f.Revenue))
	if msg != "" {
		add("revenue", msg)
	}

	if !IsAbsoluteURL(f.Website) {
		add("website", MsgWebsiteURL)
	}
	if f.SalesRep == "" {
		add("sales_rep", MsgSalesRepRequired)
	}
	if f.LastContacted == "" {
		add("last_contacted", MsgLastContactedRequired)
	}

	if len(errs) > 0 {
		return model.CompanyData{}, errs
	}

	return model.CompanyData{
		Company:       f.Company,
		Country:       f.Country,
		State:         f.State,
		City:          f.City,
		Zipcode:       f.Zipcode,
		Employees:     employees,
		Revenue:       revenue,
		Website:       f.Website,
		SalesRep:      f.SalesRep,
		LastContacted: f.LastContacted,
		Purchased:     f.Purchased,
		Notes:         f.Notes,
	}, nil
}

// Record checks an already-typed record against the same constraints as a
// form submission.
func Record(c model.CompanyData) error {
	_, err := Company(FormFromCompany(c))
	return err
}

// IsAbsoluteURL reports whether s parses as a URL with an explicit scheme
// and host.
func IsAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parseEmployees(s string) (int, string) {
	v, ok := parseNumber(s)
	if !ok {
		return 0, MsgEmployeesNumber
	}
	if v != math.Trunc(v) || v > math.MaxInt32 {
		return 0, MsgEmployeesInteger
	}
	if v <= 0 {
		return 0, MsgEmployeesPositive
	}
	return int(v), ""
}

func parseRevenue(s string) (float64, string) {
	v, ok := parseNumber(s)
	if !ok {
		return 0, MsgRevenueNumber
	}
	if v <= 0 {
		return 0, MsgRevenuePositive
	}
	return v, ""
}
