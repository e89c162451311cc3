package alerts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wellness-dashboard/internal/common/logger"
	"wellness-dashboard/internal/models"
	"wellness-dashboard/internal/store"
)

// ==========================
// Mock Implementations
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

// ==========================
// Test Helper Functions
// ==========================

func testConfig() Config {
	return Config{
		StressThreshold: 70,
		SMSThreshold:    85,
		Cooldown:        time.Hour,
		FromEmail:       "wellness@example.com",
		EmailRecipients: []string{"hr@example.com"},
		SMSRecipients:   []string{"+15550100"},
	}
}

func newTestNotifier(t *testing.T, cfg Config) *Notifier {
	t.Helper()
	return &Notifier{
		config:   cfg,
		logger:   logger.NewTestLogger(t),
		now:      time.Now,
		lastSent: make(map[string]time.Time),
	}
}

// snapshotWithStress builds one department per entry at the given mean stress.
func snapshotWithStress(levels map[string]float64) *store.Snapshot {
	var recs []models.EmployeeRecord
	i := 0
	for dept, stress := range levels {
		i++
		recs = append(recs, models.EmployeeRecord{
			EmployeeID:  "EMP" + string(rune('0'+i)) + "01",
			Name:        "Employee " + dept,
			Department:  dept,
			HeartRate:   90,
			SpO2:        94,
			StressScore: stress,
			Mood:        models.MoodForStress(stress),
		})
	}
	return store.NewSnapshot(recs)
}

// ==========================
// Scan
// ==========================

func TestScan_EmailOverThreshold(t *testing.T) {
	n := newTestNotifier(t, testConfig())

	var sentTo []string
	var subjects []string
	n.sesClient = &MockSESService{
		SendEmailFunc: func(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			sentTo = append(sentTo, params.Destination.ToAddresses...)
			subjects = append(subjects, *params.Message.Subject.Data)
			assert.Equal(t, "wellness@example.com", *params.Source)
			return &ses.SendEmailOutput{}, nil
		},
	}
	n.snsClient = &MockSNSService{
		PublishFunc: func(_ context.Context, _ *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
			t.Fatal("SMS must not be sent below the SMS threshold")
			return nil, nil
		},
	}

	snap := snapshotWithStress(map[string]float64{
		"Engineering": 80, // email only
		"Finance":     40, // no alert
	})

	require.NoError(t, n.Scan(context.Background(), snap))
	assert.Equal(t, []string{"hr@example.com"}, sentTo)
	assert.Equal(t, []string{"High stress alert: Engineering department"}, subjects)
}

func TestScan_SMSAboveSMSThreshold(t *testing.T) {
	n := newTestNotifier(t, testConfig())

	emails := 0
	n.sesClient = &MockSESService{
		SendEmailFunc: func(_ context.Context, _ *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			emails++
			return &ses.SendEmailOutput{}, nil
		},
	}

	var messages []string
	n.snsClient = &MockSNSService{
		PublishFunc: func(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
			assert.Equal(t, "+15550100", *params.PhoneNumber)
			messages = append(messages, *params.Message)
			return &sns.PublishOutput{}, nil
		},
	}

	snap := snapshotWithStress(map[string]float64{"Operations": 90})

	require.NoError(t, n.Scan(context.Background(), snap))
	assert.Equal(t, 1, emails)
	require.Len(t, messages, 1)
	assert.Equal(t, "High stress in Operations: avg 90.0/100 across 1 employees.", messages[0])
}

func TestScan_ThresholdIsStrict(t *testing.T) {
	n := newTestNotifier(t, testConfig())
	n.sesClient = &MockSESService{
		SendEmailFunc: func(_ context.Context, _ *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			t.Fatal("no alert expected at exactly the threshold")
			return nil, nil
		},
	}

	snap := snapshotWithStress(map[string]float64{"HR": 70})

	require.NoError(t, n.Scan(context.Background(), snap))
}

func TestScan_CooldownSuppressesRepeats(t *testing.T) {
	n := newTestNotifier(t, testConfig())

	current := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	n.now = func() time.Time { return current }

	emails := 0
	n.sesClient = &MockSESService{
		SendEmailFunc: func(_ context.Context, _ *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			emails++
			return &ses.SendEmailOutput{}, nil
		},
	}

	snap := snapshotWithStress(map[string]float64{"Engineering": 80})

	require.NoError(t, n.Scan(context.Background(), snap))
	require.NoError(t, n.Scan(context.Background(), snap))
	assert.Equal(t, 1, emails, "second sweep inside the cooldown must not re-alert")

	current = current.Add(time.Hour)
	require.NoError(t, n.Scan(context.Background(), snap))
	assert.Equal(t, 2, emails, "alert fires again once the cooldown elapsed")
}

func TestScan_SendFailureDoesNotStopSweep(t *testing.T) {
	n := newTestNotifier(t, testConfig())

	var attempted []string
	n.sesClient = &MockSESService{
		SendEmailFunc: func(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			attempted = append(attempted, *params.Message.Subject.Data)
			return nil, errors.New("ses throttled")
		},
	}

	snap := snapshotWithStress(map[string]float64{
		"Engineering": 80,
		"Sales":       75,
	})

	err := n.Scan(context.Background(), snap)
	require.Error(t, err)
	assert.Len(t, attempted, 2, "both departments are attempted despite failures")

	// A failed department is not put on cooldown, so the next sweep retries.
	attempted = nil
	_ = n.Scan(context.Background(), snap)
	assert.Len(t, attempted, 2)
}

func TestScan_NilSnapshot(t *testing.T) {
	n := newTestNotifier(t, testConfig())
	assert.NoError(t, n.Scan(context.Background(), nil))
}
