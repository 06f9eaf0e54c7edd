package webhookrepo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Sujallukhi04/Leaseo-sub000/util/httpx"
)

// Repo forwards committed notifications to an external webhook. Best effort:
// the caller fires it after commit and only logs failures.
type Repo interface {
	SendRewardGranted(ctx context.Context, userID int64, couponCode string) error
}

type RewardGrantedEvent struct {
	Event      string `json:"event"`
	UserID     int64  `json:"user_id"`
	CouponCode string `json:"coupon_code"`
}

type repo struct {
	url    string
	client *http.Client
}

func NewHTTP(url string) Repo {
	return &repo{url: url, client: httpx.Client()}
}

func (r *repo) SendRewardGranted(ctx context.Context, userID int64, couponCode string) error {
	if r.url == "" {
		return nil
	}
	body, err := json.Marshal(RewardGrantedEvent{
		Event:      "reward.granted",
		UserID:     userID,
		CouponCode: couponCode,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode)
	}
	return nil
}
