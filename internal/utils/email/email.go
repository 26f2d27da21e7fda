package email

import (
	"fmt"
	"net/smtp"

	"github.com/Dan9191/loan-registry/internal/config"
	"github.com/Dan9191/loan-registry/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// ApplicationReceived sends the applicant an acknowledgement of a stored application
func (s *Sender) ApplicationReceived(record models.LoanRecord) error {
	e := s.acknowledgement(record)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", record.Email, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", record.Email, e.Subject)
	return nil
}

func (s *Sender) acknowledgement(record models.LoanRecord) *email.Email {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{record.Email}
	e.Subject = "Loan Application Received"

	body := fmt.Sprintf("Dear %s,\n\n", record.Name)
	body += fmt.Sprintf(
		"Your loan application has been successfully submitted.\n\n"+
			"Loan amount: %d $\n"+
			"Interest rate: %d %%\n"+
			"Interest: %d $\n"+
			"Total interest for %d months: %d $\n",
		record.LoanAmount, record.InterestRate, record.InterestAmount,
		record.TermMonths, record.TotalInterest,
	)
	body += "\nBest regards,\nLoan Registry"
	e.Text = []byte(body)
	return e
}
