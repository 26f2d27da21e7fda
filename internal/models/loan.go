package models

import "fmt"

// Columns is the fixed header of the records file, in order.
var Columns = []string{
	"Name",
	"Email",
	"Date of Birth",
	"Loan amount",
	"Interest amount",
	"Interest money",
	"Month",
	"Interest money per month",
}

// LoanRecord represents one stored loan application
type LoanRecord struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	DateOfBirth    string `json:"date_of_birth"`
	LoanAmount     int64  `json:"loan_amount"`
	InterestRate   int64  `json:"interest_rate"`
	InterestAmount int64  `json:"interest_amount"`
	TermMonths     int64  `json:"term_months"`
	TotalInterest  int64  `json:"total_interest"`
}

// Application holds raw form input as typed by the user
type Application struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	DateOfBirth  string `json:"date_of_birth"`
	LoanAmount   string `json:"loan_amount"`
	InterestRate string `json:"interest_rate"`
	TermMonths   string `json:"term_months"`
}

// Row formats the record as a records-file row in column order
func (r LoanRecord) Row() []string {
	return []string{
		r.Name,
		r.Email,
		r.DateOfBirth,
		fmt.Sprintf("%d $", r.LoanAmount),
		fmt.Sprintf("%d %%", r.InterestRate),
		fmt.Sprintf("%d $", r.InterestAmount),
		fmt.Sprintf("%d months", r.TermMonths),
		fmt.Sprintf("%d $", r.TotalInterest),
	}
}
