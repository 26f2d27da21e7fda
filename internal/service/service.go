package service

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Dan9191/loan-registry/internal/models"
	"github.com/Dan9191/loan-registry/internal/utils"
	"github.com/sirupsen/logrus"
)

// RecordStore is the persistence the service depends on
type RecordStore interface {
	LoadAll() ([]models.LoanRecord, error)
	ExistsEmail(email string) (bool, error)
	Append(record models.LoanRecord) error
	DeleteByEmail(email string) (bool, error)
}

// Notifier is told about every stored application
type Notifier interface {
	ApplicationReceived(record models.LoanRecord) error
}

// ConfirmFunc asks the user to confirm deleting the record for email
type ConfirmFunc func(email string) bool

// DeleteOutcome is the result of a delete request that passed validation
type DeleteOutcome int

const (
	DeleteCancelled DeleteOutcome = iota
	DeleteNotFound
	DeleteRemoved
)

func (o DeleteOutcome) String() string {
	switch o {
	case DeleteCancelled:
		return "cancelled"
	case DeleteNotFound:
		return "not_found"
	case DeleteRemoved:
		return "deleted"
	default:
		return "unknown"
	}
}

// Service handles business logic
type Service struct {
	repo     RecordStore
	log      *logrus.Logger
	notifier Notifier

	// serializes check-then-write sequences for concurrent callers
	mu sync.Mutex
}

// NewService initializes a new service. notifier may be nil.
func NewService(repo RecordStore, log *logrus.Logger, notifier Notifier) *Service {
	return &Service{repo: repo, log: log, notifier: notifier}
}

// Submit validates a raw application, computes interest and stores the record.
// Checks run in a fixed order and the first failure is returned.
func (s *Service) Submit(app models.Application) (*models.LoanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := strings.TrimSpace(app.Name)
	email := strings.TrimSpace(app.Email)
	dob := strings.TrimSpace(app.DateOfBirth)

	if name == "" {
		return nil, invalid("name", "Please enter the customer's full name.")
	}

	if email == "" {
		return nil, invalid("email", "Please enter the customer's email address.")
	}
	if !utils.ValidateEmail(email) {
		return nil, invalid("email", "Please enter a valid email address (e.g., user@example.com).")
	}
	exists, err := s.repo.ExistsEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to check email: %w", ErrStorage, err)
	}
	if exists {
		return nil, &ValidationError{
			Field:   "email",
			Message: "This email address is already registered in our system.",
			Err:     ErrDuplicateEmail,
		}
	}

	if dob == "" {
		return nil, invalid("date_of_birth", "Please enter the date of birth.")
	}
	if !utils.ValidateDateOfBirth(dob) {
		return nil, invalid("date_of_birth",
			fmt.Sprintf("Please enter a valid date of birth in YYYY-MM-DD format (must be before %s).", utils.DOBCutoff))
	}

	amount, err := positiveField(app.LoanAmount, "loan_amount",
		"Please enter the loan amount.", "Loan amount must be a positive number.")
	if err != nil {
		return nil, err
	}
	rate, err := positiveField(app.InterestRate, "interest_rate",
		"Please enter the interest rate.", "Interest rate must be a positive number.")
	if err != nil {
		return nil, err
	}
	months, err := positiveField(app.TermMonths, "term_months",
		"Please enter the loan term in months.", "Loan term must be a positive number of months.")
	if err != nil {
		return nil, err
	}

	interest, ok := utils.SimpleInterest(amount, rate)
	if !ok {
		return nil, invalid("interest_rate", "Interest rate is too high for this loan amount.")
	}
	total, ok := utils.TotalInterest(interest, months)
	if !ok {
		return nil, invalid("term_months", "Loan term is too long for this loan amount and interest rate.")
	}
	record := models.LoanRecord{
		Name:           utils.TitleCase(name),
		Email:          strings.ToLower(email),
		DateOfBirth:    dob,
		LoanAmount:     amount,
		InterestRate:   rate,
		InterestAmount: interest,
		TermMonths:     months,
		TotalInterest:  total,
	}

	if err := s.repo.Append(record); err != nil {
		s.log.Errorf("Failed to save application for %s: %v", record.Email, err)
		return nil, fmt.Errorf("%w: failed to save application: %w", ErrStorage, err)
	}
	s.log.Infof("Application stored: %s", record.Email)

	if s.notifier != nil {
		if err := s.notifier.ApplicationReceived(record); err != nil {
			s.log.Warnf("Failed to notify %s: %v", record.Email, err)
		}
	}
	return &record, nil
}

// List returns all stored records in insertion order
func (s *Service) List() ([]models.LoanRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.repo.LoadAll()
	if err != nil {
		s.log.Errorf("Failed to load records: %v", err)
		return nil, fmt.Errorf("%w: failed to load records: %w", ErrStorage, err)
	}
	return records, nil
}

// Delete removes the record for email after confirm approves it
func (s *Service) Delete(email string, confirm ConfirmFunc) (DeleteOutcome, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return DeleteCancelled, invalid("email", "Please enter the email address of the record you wish to delete.")
	}
	if !utils.ValidateEmail(email) {
		return DeleteCancelled, invalid("email", "Please enter a valid email address.")
	}
	if confirm == nil || !confirm(email) {
		s.log.Debugf("Deletion of %s cancelled", email)
		return DeleteCancelled, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.repo.DeleteByEmail(email)
	if err != nil {
		s.log.Errorf("Failed to delete record %s: %v", email, err)
		return DeleteCancelled, fmt.Errorf("%w: failed to delete record: %w", ErrStorage, err)
	}
	if !removed {
		return DeleteNotFound, nil
	}
	s.log.Infof("Record deleted: %s", strings.ToLower(email))
	return DeleteRemoved, nil
}

func positiveField(raw, field, missing, notPositive string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, invalid(field, missing)
	}
	n, ok := utils.ParsePositiveInt(raw)
	if !ok {
		return 0, invalid(field, notPositive)
	}
	return n, nil
}
