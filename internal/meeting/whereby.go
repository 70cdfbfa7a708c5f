package meeting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mediconnect-dev/telehealth-scheduler/internal/httperr"
)

const defaultWherebyBaseURL = "https://api.whereby.dev/v1"

type WherebyClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewWherebyClient(apiKey string) *WherebyClient {
	return &WherebyClient{
		apiKey:  apiKey,
		baseURL: defaultWherebyBaseURL,
		http:    &http.Client{Timeout: 20 * time.Second},
	}
}

// NewWherebyClientWithBaseURL exists for tests.
func NewWherebyClientWithBaseURL(apiKey, baseURL string) *WherebyClient {
	c := NewWherebyClient(apiKey)
	c.baseURL = baseURL
	return c
}

type createMeetingRequest struct {
	EndDate string   `json:"endDate"`
	Fields  []string `json:"fields"`
}

type createMeetingResponse struct {
	MeetingID   string `json:"meetingId"`
	RoomURL     string `json:"roomUrl"`
	HostRoomURL string `json:"hostRoomUrl"`
}

func (c *WherebyClient) CreateRoom(ctx context.Context, endDate time.Time) (*Room, error) {
	if c.apiKey == "" {
		return nil, httperr.ErrDependency("meeting_provider_unavailable", "Meeting provider is not configured.")
	}

	body, err := json.Marshal(createMeetingRequest{
		EndDate: endDate.UTC().Format(time.RFC3339),
		Fields:  []string{"hostRoomUrl"},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/meetings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, httperr.ErrDependency("meeting_provider_unavailable", "Meeting provider did not respond.")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httperr.ErrDependency(
			"meeting_provider_unavailable",
			fmt.Sprintf("Meeting provider returned status %d.", resp.StatusCode),
		)
	}

	var out createMeetingResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, httperr.ErrDependency("meeting_provider_unavailable", "Meeting provider returned an invalid response.")
	}

	room := &Room{
		ID:       out.MeetingID,
		GuestURL: out.RoomURL,
		HostURL:  out.HostRoomURL,
	}
	if room.ID == "" {
		room.ID = roomIDFromURL(out.RoomURL)
	}

	return room, nil
}

func roomIDFromURL(raw string) string {
	if u, err := url.Parse(raw); err == nil {
		if parts := strings.Split(strings.Trim(u.Path, "/"), "/"); len(parts) > 0 && parts[len(parts)-1] != "" {
			return parts[len(parts)-1]
		}
	}
	return uuid.NewString()
}
