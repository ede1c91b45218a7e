package models

import "time"

// ReportBundle is the unit handed to the report/agent stage: everything the
// pipeline learned about one company in one query. It is immutable after
// assembly. When resolution failed the analytical fields are empty structures
// and News is empty; the bundle is still well-formed and downstream stages
// treat absent data as normal.
type ReportBundle struct {
	Symbol      string              `json:"symbol"`
	CompanyName string              `json:"company_name"`
	BasicInfo   BasicInfo           `json:"basic_info"`
	Fundamental FundamentalSnapshot `json:"fundamental_data"`
	Technical   TechnicalSnapshot   `json:"technical_data"`
	Signals     []string            `json:"signals"`
	News        []NewsArticle       `json:"news"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// Resolved reports whether the bundle carries actual analysis data.
func (b *ReportBundle) Resolved() bool { return b.Symbol != "" }
