package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"fjacquet/paypal-sync/internal/models"
	"fjacquet/paypal-sync/internal/resilience"
	"fjacquet/paypal-sync/internal/syncerror"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

var log = logrus.New()

// SetLogger allows setting a configured logger.
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Client talks to the transaction listing endpoint. Every page fetch is
// one network call; non-2xx responses propagate as a TransportError with
// no retry. The circuit breaker only fails fast once the upstream is
// persistently unhealthy.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	breaker    *gobreaker.CircuitBreaker
}

// NewClient creates a transaction listing client.
func NewClient(httpClient *http.Client, baseURL string, tokens TokenSource) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		tokens:     tokens,
		breaker:    resilience.NewCircuitBreaker("paypal-transactions"),
	}
}

// PageRequest holds the parameters of one page fetch. StartDate and
// EndDate are preformatted API timestamps.
type PageRequest struct {
	StartDate            string
	EndDate              string
	Page                 int
	PageSize             int
	BalanceAffectingOnly bool
}

// Link is one hypermedia link from a listing response.
type Link struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

// TransactionPage is one page of the listing response. TotalPages is
// absent from some responses, in which case pagination falls back to the
// hypermedia links.
type TransactionPage struct {
	TransactionDetails []models.RawTransaction `json:"transaction_details"`
	TotalPages         *int                    `json:"total_pages"`
	Page               int                     `json:"page"`
	Links              []Link                  `json:"links"`
}

// HasNext reports whether the response advertises a next page link.
func (p *TransactionPage) HasNext() bool {
	for _, l := range p.Links {
		if l.Rel == "next" {
			return true
		}
	}
	return false
}

// ListPage fetches one page of transactions.
func (c *Client) ListPage(ctx context.Context, req PageRequest) (*TransactionPage, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("error acquiring token: %w", err)
	}

	balance := "N"
	if req.BalanceAffectingOnly {
		balance = "Y"
	}
	params := url.Values{
		"start_date":                     {req.StartDate},
		"end_date":                       {req.EndDate},
		"fields":                         {"all"},
		"page_size":                      {strconv.Itoa(req.PageSize)},
		"page":                           {strconv.Itoa(req.Page)},
		"balance_affecting_records_only": {balance},
	}
	reqURL := c.baseURL + "/v1/reporting/transactions?" + params.Encode()

	result, err := c.breaker.Execute(func() (any, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
		httpReq.Header.Set("Accept", "application/json")

		log.WithFields(logrus.Fields{
			"start": req.StartDate,
			"end":   req.EndDate,
			"page":  req.Page,
		}).Debug("Fetching transactions page")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				log.WithError(err).Warn("Failed to close response body")
			}
		}()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			log.WithFields(logrus.Fields{
				"status": resp.StatusCode,
				"body":   string(body),
			}).Error("Transactions API returned non-success status")
			return nil, &syncerror.TransportError{
				Status: resp.StatusCode,
				URL:    c.baseURL + "/v1/reporting/transactions",
				Body:   string(body),
			}
		}

		var page TransactionPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("error decoding transactions page: %w", err)
		}
		return &page, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*TransactionPage), nil
}
