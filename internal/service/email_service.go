package service

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"schoolfit/internal/metrics"
)

// sesAPI is the part of the SES client the email service calls
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client     sesAPI
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	debug      bool
	metrics    *metrics.Metrics
}

// NewEmailService creates a new email service. With no from address the
// service is disabled and every send is skipped.
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName, appBaseURL string, debug bool, m *metrics.Metrics) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, debug: debug, metrics: m}, nil
	}

	if debug {
		log.Printf("[DEBUG] Initializing email service with AWS SES")
		log.Printf("[DEBUG] AWS Region: %s", awsRegion)
		log.Printf("[DEBUG] From: %s <%s>", fromName, fromEmail)
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(awsRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)
	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		debug:      debug,
		metrics:    m,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s != nil && s.enabled
}

// SendWelcomeEmail greets a newly registered user and tells them their username
func (s *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, toName, username string) error {
	if !s.IsEnabled() {
		if s != nil && s.debug {
			log.Printf("[DEBUG] Skipping welcome email to %s (service disabled)", toEmail)
		}
		return nil
	}

	subject := "Welcome to SchoolFit"
	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<h1>Welcome, %s!</h1>
	<p>Your SchoolFit account is ready. Your username is <strong>%s</strong>.</p>
	<p>Log workouts, record your NAPFA results and earn points for your house.</p>
	<p><a href="%s">Open SchoolFit</a></p>
</body>
</html>`, html.EscapeString(toName), html.EscapeString(username), html.EscapeString(s.appBaseURL))
	textBody := fmt.Sprintf("Welcome, %s!\n\nYour SchoolFit account is ready. Your username is %s.\n\n%s\n",
		toName, username, s.appBaseURL)

	err := s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
	s.metrics.IncEmail("welcome", err)
	return err
}

// SendRosterDigest mails a teacher a summary of every student on their roster
func (s *EmailService) SendRosterDigest(ctx context.Context, toEmail, toName string, roster []RosterEntry) error {
	if !s.IsEnabled() {
		if s != nil && s.debug {
			log.Printf("[DEBUG] Skipping roster digest to %s (service disabled)", toEmail)
		}
		return nil
	}

	var rows, lines strings.Builder
	for _, entry := range roster {
		napfa := "not tested"
		if entry.LatestNapfa != nil {
			napfa = fmt.Sprintf("%d/30 %s", entry.LatestNapfa.Total, entry.LatestNapfa.Medal)
		}
		fmt.Fprintf(&rows, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%s</td><td>%d</td></tr>\n",
			html.EscapeString(entry.Name), html.EscapeString(entry.Class), html.EscapeString(napfa),
			entry.TotalPoints, html.EscapeString(entry.Level), entry.Workouts)
		fmt.Fprintf(&lines, "- %s (%s): NAPFA %s, %d points, %s, %d workouts\n",
			entry.Name, entry.Class, napfa, entry.TotalPoints, entry.Level, entry.Workouts)
	}

	subject := fmt.Sprintf("SchoolFit roster summary: %d students", len(roster))
	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<p>Hi %s, here is the latest summary of your students.</p>
	<table border="1" cellpadding="6" style="border-collapse: collapse;">
		<tr><th>Name</th><th>Class</th><th>NAPFA</th><th>Points</th><th>Level</th><th>Workouts</th></tr>
%s	</table>
</body>
</html>`, html.EscapeString(toName), rows.String())
	textBody := fmt.Sprintf("Hi %s, here is the latest summary of your students.\n\n%s", toName, lines.String())

	err := s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
	s.metrics.IncEmail("roster_digest", err)
	return err
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		log.Printf("[DEBUG] sendEmail: from=%s to=%s subject=%s", fromAddress, toEmail, subject)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] Message ID: %s", *result.MessageId)
	}
	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
