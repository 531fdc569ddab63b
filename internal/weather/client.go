package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/example/triptime/internal/errs"
)

// DefaultBaseURL points at the public hourly weather archive API.
const DefaultBaseURL = "https://archive-api.open-meteo.com/v1/archive"

const hourLayout = "2006-01-02T15:04"

// Client fetches hourly temperature and precipitation from the archive API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient builds a Client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type archiveResponse struct {
	Hourly struct {
		Time          []string  `json:"time"`
		Temperature2M []float64 `json:"temperature_2m"`
		Precipitation []float64 `json:"precipitation"`
	} `json:"hourly"`
}

// Hourly fetches one observation per hour in [from, to] for loc. Any
// transport failure, non-200 status or malformed payload is reported as an
// upstream error; no retry is attempted here.
func (c *Client) Hourly(ctx context.Context, loc Location, from, to time.Time) (Series, error) {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(loc.Latitude, 'f', 4, 64))
	query.Set("longitude", strconv.FormatFloat(loc.Longitude, 'f', 4, 64))
	query.Set("start_date", from.Format("2006-01-02"))
	query.Set("end_date", to.Format("2006-01-02"))
	query.Set("hourly", "temperature_2m,precipitation")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, errs.Upstream("weather", fmt.Errorf("build request: %w", err))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errs.Upstream("weather", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.Upstream("weather", fmt.Errorf("unexpected status %s", resp.Status))
	}

	var payload archiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errs.Upstream("weather", fmt.Errorf("decode response: %w", err))
	}

	hourly := payload.Hourly
	if len(hourly.Temperature2M) != len(hourly.Time) || len(hourly.Precipitation) != len(hourly.Time) {
		return nil, errs.Upstream("weather", fmt.Errorf("ragged hourly series: %d times, %d temps, %d prcp",
			len(hourly.Time), len(hourly.Temperature2M), len(hourly.Precipitation)))
	}

	series := make(Series, 0, len(hourly.Time))
	for i, raw := range hourly.Time {
		ts, err := time.Parse(hourLayout, raw)
		if err != nil {
			return nil, errs.Upstream("weather", fmt.Errorf("parse hour %q: %w", raw, err))
		}
		series = append(series, Observation{
			Time: ts.UTC(),
			Temp: hourly.Temperature2M[i],
			Prcp: hourly.Precipitation[i],
		})
	}
	return series, nil
}
