// internal/alerts/service.go
package alerts

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	wellnesserrors "wellness-dashboard/internal/common/errors"
	"wellness-dashboard/internal/common/logger"
	"wellness-dashboard/internal/common/metrics"
	"wellness-dashboard/internal/store"
)

// Interfaces for mocking the AWS clients.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Config holds the notifier thresholds and recipients.
type Config struct {
	StressThreshold float64
	SMSThreshold    float64
	Cooldown        time.Duration
	AWSRegion       string
	FromEmail       string
	EmailRecipients []string
	SMSRecipients   []string
}

// Notifier sweeps department stress aggregates and notifies HR contacts when
// a department's mean stress crosses the configured threshold. Email goes out
// per crossing; SMS only above the higher SMS threshold. A per-department
// cooldown keeps repeated sweeps from re-alerting on the same condition.
type Notifier struct {
	config    Config
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
	now       func() time.Time

	mu       sync.Mutex
	lastSent map[string]time.Time
}

func NewNotifier(ctx context.Context, cfg Config, log logger.Logger) (*Notifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Notifier{
		config:    cfg,
		logger:    log.WithFields(map[string]interface{}{"component": "alerts"}),
		sesClient: ses.NewFromConfig(awsCfg),
		snsClient: sns.NewFromConfig(awsCfg),
		now:       time.Now,
		lastSent:  make(map[string]time.Time),
	}, nil
}

// Scan evaluates one snapshot and sends alerts for every department above the
// stress threshold whose cooldown has elapsed. Send failures are logged and
// counted but do not stop the sweep; the last failure is returned.
func (n *Notifier) Scan(ctx context.Context, snap *store.Snapshot) error {
	if snap == nil {
		return nil
	}

	var lastErr error
	for _, stats := range snap.DepartmentRankings() {
		if stats.AvgStress <= n.config.StressThreshold {
			continue
		}
		if !n.cooldownElapsed(stats.Department) {
			continue
		}

		n.logger.Warn("department over stress threshold", map[string]interface{}{
			"department": stats.Department,
			"avgStress":  stats.AvgStress,
			"threshold":  n.config.StressThreshold,
		})

		if err := n.alert(ctx, stats); err != nil {
			lastErr = err
			continue
		}
		n.markSent(stats.Department)
	}
	return lastErr
}

func (n *Notifier) cooldownElapsed(department string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	last, ok := n.lastSent[department]
	return !ok || n.now().Sub(last) >= n.config.Cooldown
}

func (n *Notifier) markSent(department string) {
	n.mu.Lock()
	n.lastSent[department] = n.now()
	n.mu.Unlock()
}

func (n *Notifier) alert(ctx context.Context, stats store.DepartmentStats) error {
	subject := fmt.Sprintf("High stress alert: %s department", stats.Department)
	body := n.renderBody(stats)

	var lastErr error
	for _, to := range n.config.EmailRecipients {
		if err := n.sendEmail(ctx, to, subject, body); err != nil {
			n.logger.Error("email alert failed", map[string]interface{}{
				"error":      err.Error(),
				"department": stats.Department,
				"email":      to,
			})
			lastErr = wellnesserrors.NewAlertSendFailedError(err)
			continue
		}
		metrics.AlertsSent.WithLabelValues("email").Inc()
	}

	if stats.AvgStress > n.config.SMSThreshold {
		sms := fmt.Sprintf("High stress in %s: avg %.1f/100 across %d employees.",
			stats.Department, stats.AvgStress, stats.EmployeeCount)
		for _, to := range n.config.SMSRecipients {
			if err := n.sendSMS(ctx, to, sms); err != nil {
				n.logger.Error("SMS alert failed", map[string]interface{}{
					"error":      err.Error(),
					"department": stats.Department,
					"phone":      to,
				})
				lastErr = wellnesserrors.NewAlertSendFailedError(err)
				continue
			}
			metrics.AlertsSent.WithLabelValues("sms").Inc()
		}
	}

	return lastErr
}

func (n *Notifier) renderBody(stats store.DepartmentStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The %s department has crossed the stress alert threshold.\n\n", stats.Department)
	fmt.Fprintf(&b, "Average stress: %.1f/100\n", stats.AvgStress)
	fmt.Fprintf(&b, "Employees over threshold: %d of %d\n", stats.HighStressCount, stats.EmployeeCount)
	fmt.Fprintf(&b, "Average heart rate: %.1f bpm\n", stats.AvgHeartRate)
	fmt.Fprintf(&b, "Average SpO2: %.1f%%\n", stats.AvgSpO2)
	fmt.Fprintf(&b, "Most common mood: %s\n", stats.TopMood)
	return b.String()
}

func (n *Notifier) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := n.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.config.FromEmail),
	})
	return err
}

func (n *Notifier) sendSMS(ctx context.Context, to, message string) error {
	_, err := n.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
}
