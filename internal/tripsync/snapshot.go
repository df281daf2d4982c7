package tripsync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"backend-schoolbus/internal/trip"
)

// SnapshotFetcher pulls the current trip document over REST. The stream
// client uses it at start, after every reconnect, and on debounced refresh
// triggers.
type SnapshotFetcher struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewSnapshotFetcher(baseURL, token string) *SnapshotFetcher {
	return &SnapshotFetcher{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (f *SnapshotFetcher) Fetch(ctx context.Context, tripID string) (trip.Detail, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/trips/"+tripID, nil)
	if err != nil {
		return trip.Detail{}, err
	}
	req.Header.Set("Authorization", "Bearer "+f.token)

	resp, err := f.client.Do(req)
	if err != nil {
		return trip.Detail{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return trip.Detail{}, fmt.Errorf("snapshot fetch: unexpected status %d", resp.StatusCode)
	}

	var dt trip.Detail
	if err := json.NewDecoder(resp.Body).Decode(&dt); err != nil {
		return trip.Detail{}, err
	}
	return dt, nil
}
