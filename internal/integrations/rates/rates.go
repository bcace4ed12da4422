// Package rates fetches the central bank key rate, used to put savings
// recommendations into context.
package rates

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"

	"github.com/finassist/finance-service/internal/config"
)

// Client handles the key-rate SOAP endpoint
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new key-rate client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.KeyRateURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// KeyRate returns the most recent key rate published over the last 30 days.
func (c *Client) KeyRate() (float64, error) {
	from := time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	to := time.Now().Format("2006-01-02")
	soapRequest := fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
		<soap12:Envelope xmlns:soap12="http://www.w3.org/2003/05/soap-envelope">
			<soap12:Body>
				<KeyRate xmlns="http://web.cbr.ru/">
					<fromDate>%s</fromDate>
					<ToDate>%s</ToDate>
				</KeyRate>
			</soap12:Body>
		</soap12:Envelope>`, from, to)

	req, err := http.NewRequest("POST", c.url, bytes.NewBufferString(soapRequest))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/soap+xml; charset=utf-8")
	req.Header.Set("SOAPAction", "http://web.cbr.ru/KeyRate")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("key rate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}

	rate, err := parseKeyRate(body)
	if err != nil {
		return 0, err
	}

	c.log.Debugf("retrieved key rate: %.2f%%", rate)
	return rate, nil
}

func parseKeyRate(raw []byte) (float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return 0, fmt.Errorf("failed to parse XML: %w", err)
	}

	entries := doc.FindElements("//diffgram/KeyRate/KR")
	if len(entries) == 0 {
		return 0, fmt.Errorf("no key rate data found")
	}

	rateElement := entries[0].FindElement("./Rate")
	if rateElement == nil {
		return 0, fmt.Errorf("rate element not found")
	}

	rate, err := strconv.ParseFloat(rateElement.Text(), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse rate %q: %w", rateElement.Text(), err)
	}
	return rate, nil
}
