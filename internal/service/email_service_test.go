package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolfit/internal/models"
)

type fakeSES struct {
	sent []*sesv2.SendEmailInput
	err  error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, params)
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func newFakeEmail(ses *fakeSES) *EmailService {
	return &EmailService{
		client:     ses,
		fromEmail:  "noreply@schoolfit.test",
		fromName:   "SchoolFit",
		appBaseURL: "https://schoolfit.test",
		enabled:    true,
	}
}

func TestDisabledEmailServiceSkipsSends(t *testing.T) {
	email, err := NewEmailService(context.Background(), "ap-southeast-1", "", "", "", false, nil)
	require.NoError(t, err)
	assert.False(t, email.IsEnabled())
	assert.NoError(t, email.SendWelcomeEmail(context.Background(), "jane@school.edu", "Jane", "jane"))

	var nilService *EmailService
	assert.False(t, nilService.IsEnabled())
	assert.NoError(t, nilService.SendWelcomeEmail(context.Background(), "jane@school.edu", "Jane", "jane"))
}

func TestSendWelcomeEmail(t *testing.T) {
	ses := &fakeSES{}
	email := newFakeEmail(ses)

	require.NoError(t, email.SendWelcomeEmail(context.Background(), "jane@school.edu", "Jane <b>", "jane"))
	require.Len(t, ses.sent, 1)

	input := ses.sent[0]
	assert.Equal(t, "SchoolFit <noreply@schoolfit.test>", aws.ToString(input.FromEmailAddress))
	assert.Equal(t, []string{"jane@school.edu"}, input.Destination.ToAddresses)
	html := aws.ToString(input.Content.Simple.Body.Html.Data)
	assert.Contains(t, html, "Jane &lt;b&gt;")
	assert.Contains(t, html, "<strong>jane</strong>")
}

func TestSendRosterDigest(t *testing.T) {
	ses := &fakeSES{}
	email := newFakeEmail(ses)
	roster := []RosterEntry{
		{Name: "Amy", Class: "2A", TotalPoints: 120, Level: "Beginner", Workouts: 4,
			LatestNapfa: &models.NapfaTestRecord{Total: 22, Medal: models.MedalGold}},
		{Name: "Ben", Class: "2A", Level: "Novice"},
	}

	require.NoError(t, email.SendRosterDigest(context.Background(), "tan@school.edu", "Mr Tan", roster))
	require.Len(t, ses.sent, 1)
	text := aws.ToString(ses.sent[0].Content.Simple.Body.Text.Data)
	assert.Contains(t, text, "Amy (2A): NAPFA 22/30 Gold, 120 points")
	assert.Contains(t, text, "Ben (2A): NAPFA not tested")
	assert.True(t, strings.Contains(aws.ToString(ses.sent[0].Content.Simple.Subject.Data), "2 students"))
}

func TestSendEmailError(t *testing.T) {
	ses := &fakeSES{err: errors.New("throttled")}
	err := newFakeEmail(ses).SendWelcomeEmail(context.Background(), "jane@school.edu", "Jane", "jane")
	assert.ErrorContains(t, err, "throttled")
}
