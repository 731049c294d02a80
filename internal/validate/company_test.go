package validate

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-tracker/internal/model"
)

func validForm() CompanyForm {
	return CompanyForm{
		Company:       "Test Company",
		Country:       "USA",
		State:         "California",
		City:          "San Francisco",
		Zipcode:       "94105",
		Employees:     "50",
		Revenue:       "1000000",
		Website:       "https://example.com",
		SalesRep:      "John Doe",
		LastContacted: "2024-01-15",
		Purchased:     true,
		Notes:         "Some notes",
	}
}

func fieldErrors(t *testing.T, err error) Errors {
	t.Helper()
	require.Error(t, err)
	var errs Errors
	require.True(t, errors.As(err, &errs), "expected validate.Errors, got %T", err)
	return errs
}

func TestCompany_Valid(t *testing.T) {
	got, err := Company(validForm())
	require.NoError(t, err)
	assert.Equal(t, model.CompanyData{
		Company:       "Test Company",
		Country:       "USA",
		State:         "California",
		City:          "San Francisco",
		Zipcode:       "94105",
		Employees:     50,
		Revenue:       1000000,
		Website:       "https://example.com",
		SalesRep:      "John Doe",
		LastContacted: "2024-01-15",
		Purchased:     true,
		Notes:         "Some notes",
	}, got)
}

func TestCompany_EmptyNotesAllowed(t *testing.T) {
	f := validForm()
	f.Notes = ""
	_, err := Company(f)
	assert.NoError(t, err)
}

func TestCompany_RequiredFields(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*CompanyForm)
		msg    string
	}{
		{"company", func(f *CompanyForm) { f.Company = "" }, MsgCompanyRequired},
		{"country", func(f *CompanyForm) { f.Country = "" }, MsgCountryRequired},
		{"state", func(f *CompanyForm) { f.State = "" }, MsgStateRequired},
		{"city", func(f *CompanyForm) { f.City = "" }, MsgCityRequired},
		{"sales_rep", func(f *CompanyForm) { f.SalesRep = "" }, MsgSalesRepRequired},
		{"last_contacted", func(f *CompanyForm) { f.LastContacted = "" }, MsgLastContactedRequired},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)
			errs := fieldErrors(t, func() error { _, err := Company(f); return err }())
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, tt.msg, errs[0].Message)
			assert.Contains(t, errs[0].Message, "required")
		})
	}
}

func TestCompany_MultipleMissing(t *testing.T) {
	f := validForm()
	f.Country, f.State, f.City = "", "", ""

	_, err := Company(f)
	errs := fieldErrors(t, err)
	assert.GreaterOrEqual(t, len(errs), 3)
	assert.Equal(t, MsgCountryRequired, errs.Field("country"))
	assert.Equal(t, MsgStateRequired, errs.Field("state"))
	assert.Equal(t, MsgCityRequired, errs.Field("city"))
	assert.Empty(t, errs.Field("company"))
	assert.Equal(t, []string{"country", "state", "city"}, errs.Fields())
}

func TestCompany_Zipcode(t *testing.T) {
	tests := []struct {
		zip   string
		valid bool
	}{
		{"12345", true},
		{"12345-6789", true},
		{"ABC12", false},
		{"123", false},
		{"123-456789", false},
		{"12345-678", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.zip, func(t *testing.T) {
			f := validForm()
			f.Zipcode = tt.zip
			_, err := Company(f)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			errs := fieldErrors(t, err)
			assert.Contains(t, errs.Field("zipcode"), "Invalid US zipcode")
		})
	}
}

func TestCompany_Employees(t *testing.T) {
	tests := []struct {
		value Number
		msg   string
	}{
		{"100", ""},
		{"75", ""},
		{"-5", MsgEmployeesPositive},
		{"0", MsgEmployeesPositive},
		{"1.5", MsgEmployeesInteger},
		{"abc", MsgEmployeesNumber},
		{"", MsgEmployeesNumber},
	}
	for _, tt := range tests {
		t.Run(string(tt.value), func(t *testing.T) {
			f := validForm()
			f.Employees = tt.value
			_, err := Company(f)
			if tt.msg == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.msg, fieldErrors(t, err).Field("employees"))
		})
	}
}

func TestCompany_Revenue(t *testing.T) {
	tests := []struct {
		value Number
		msg   string
	}{
		{"5000000", ""},
		{"1234.56", ""},
		{"-100", MsgRevenuePositive},
		{"0", MsgRevenuePositive},
		{"NaN", MsgRevenueNumber},
		{"lots", MsgRevenueNumber},
	}
	for _, tt := range tests {
		t.Run(string(tt.value), func(t *testing.T) {
			f := validForm()
			f.Revenue = tt.value
			_, err := Company(f)
			if tt.msg == "" {
				assert.NoError(t, err)
				return
			}
			msg := fieldErrors(t, err).Field("revenue")
			assert.Equal(t, tt.msg, msg)
		})
	}
}

func TestCompany_CoercesNumericStrings(t *testing.T) {
	f := validForm()
	f.Employees = "75"
	f.Revenue = "500000"

	got, err := Company(f)
	require.NoError(t, err)
	assert.Equal(t, 75, got.Employees)
	assert.InDelta(t, 500000, got.Revenue, 0)
}

func TestCompany_Website(t *testing.T) {
	tests := []struct {
		url   string
		valid bool
	}{
		{"https://example.com", true},
		{"http://example.com", true},
		{"https://example.com/path?q=1", true},
		{"not-a-url", false},
		{"example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			f := validForm()
			f.Website = tt.url
			_, err := Company(f)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, fieldErrors(t, err).Field("website"), "Invalid URL")
		})
	}
}

func TestCompany_Purchased(t *testing.T) {
	for _, purchased := range []bool{true, false} {
		f := validForm()
		f.Purchased = purchased
		got, err := Company(f)
		require.NoError(t, err)
		assert.Equal(t, purchased, got.Purchased)
	}
}

func TestCompany_FailureReturnsZeroRecord(t *testing.T) {
	f := validForm()
	f.Company = ""
	got, err := Company(f)
	require.Error(t, err)
	assert.Equal(t, model.CompanyData{}, got)
}

func TestErrors_Error(t *testing.T) {
	errs := Errors{
		{Field: "company", Message: MsgCompanyRequired},
		{Field: "zipcode", Message: MsgZipcodeFormat},
	}
	assert.Equal(t,
		"validation failed: company: Company name is required; zipcode: Invalid US zipcode format (e.g., 12345 or 12345-6789)",
		errs.Error())
}

func TestNumber_UnmarshalJSON(t *testing.T) {
	var f CompanyForm
	err := json.Unmarshal([]byte(`{"employees": 75, "revenue": "500000.5"}`), &f)
	require.NoError(t, err)
	assert.Equal(t, Number("75"), f.Employees)
	assert.Equal(t, Number("500000.5"), f.Revenue)

	err = json.Unmarshal([]byte(`{"employees": null}`), &f)
	require.NoError(t, err)
	assert.Equal(t, Number(""), f.Employees)

	err = json.Unmarshal([]byte(`{"employees": true}`), &f)
	assert.Error(t, err)
}

func TestRecord(t *testing.T) {
	c := model.CompanyData{
		Company:       "Lakin-Rosenbaum",
		Country:       "French Polynesia",
		State:         "Kentucky",
		City:          "Louisville",
		Zipcode:       "63665-7148",
		Employees:     6,
		Revenue:       5709368,
		Website:       "http://larson.com",
		SalesRep:      "Nina",
		LastContacted: "1998-11-18",
		Purchased:     true,
	}
	assert.NoError(t, Record(c))

	c.Website = "larson.com"
	assert.Equal(t, MsgWebsiteURL, fieldErrors(t, Record(c)).Field("website"))
}

func TestFormFromCompany(t *testing.T) {
	f := FormFromCompany(model.CompanyData{Employees: 6, Revenue: 5709368.25})
	assert.Equal(t, Number("6"), f.Employees)
	assert.Equal(t, Number("5709368.25"), f.Revenue)
}
