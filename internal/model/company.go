// Package model defines the company lead record shared by the store, the
// matching engine and the ingestion pipeline.
package model

// CompanyData is a single sales lead.
//
// There is no primary key. Identity is decided by field overlap (see package
// matching); a record's position in the collection is its only handle.
type CompanyData struct {
	Company       string  `json:"company" yaml:"company"`
	Country       string  `json:"country" yaml:"country"`
	State         string  `json:"state" yaml:"state"`
	City          string  `json:"city" yaml:"city"`
	Zipcode       string  `json:"zipcode" yaml:"zipcode"`
	Employees     int     `json:"employees" yaml:"employees"`
	Revenue       float64 `json:"revenue" yaml:"revenue"`
	Website       string  `json:"website" yaml:"website"`
	SalesRep      string  `json:"sales_rep" yaml:"sales_rep"`
	LastContacted string  `json:"last_contacted" yaml:"last_contacted"`
	Purchased     bool    `json:"purchased" yaml:"purchased"`
	Notes         string  `json:"notes" yaml:"notes"`
}

// APIResponse is the envelope returned by the company data API.
type APIResponse struct {
	Status string        `json:"status"`
	Code   int           `json:"code"`
	Total  int           `json:"total"`
	Data   []CompanyData `json:"data"`
}
