package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"sparcsetl/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	toAddress   string
}

// NewSESSender creates a new SES-backed EmailSender delivering run
// summaries to a single operator address.
func NewSESSender(region, fromAddress, fromName, toAddress string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		toAddress:   toAddress,
	}, nil
}

func (s *sesSender) SendRunSummary(ctx context.Context, summary port.RunSummary) error {
	subject := fmt.Sprintf("SPARCS compliance run %s complete", summary.RunID)
	htmlBody := buildSummaryHTML(summary)
	textBody := fmt.Sprintf(
		"SPARCS compliance run %s finished.\n\nFinal rows: %d\nTables rejected: %d\nDocuments failed: %d\nDataset: %s\n",
		summary.RunID, summary.FinalRows, summary.TablesRejected, summary.DocumentsFailed, summary.DatasetPath)
	if summary.DatasetURL != "" {
		textBody += fmt.Sprintf("Download: %s\n", summary.DatasetURL)
	}

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{s.toAddress},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildSummaryHTML(summary port.RunSummary) string {
	dataset := summary.DatasetPath
	if summary.DatasetURL != "" {
		dataset = fmt.Sprintf(`<a href="%s">%s</a>`, summary.DatasetURL, summary.DatasetPath)
	}
	return fmt.Sprintf(`<html><body>
<h2>SPARCS compliance run complete</h2>
<p>Run <code>%s</code> finished.</p>
<table cellpadding="4">
<tr><td>Final rows</td><td><b>%d</b></td></tr>
<tr><td>Tables rejected</td><td>%d</td></tr>
<tr><td>Documents failed</td><td>%d</td></tr>
<tr><td>Dataset</td><td>%s</td></tr>
</table>
</body></html>`,
		summary.RunID, summary.FinalRows, summary.TablesRejected, summary.DocumentsFailed, dataset)
}
