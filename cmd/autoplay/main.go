// Command autoplay plays a session through the REST API by always taking the server's hint.
// It is handy for smoke-testing a running server and for watching a board clear over the
// WebSocket feed in another client.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mahjong-connect/game/engine"
	"github.com/wricardo/mahjong-connect/game/service"
)

// Player drives one session over HTTP
type Player struct {
	baseURL    string
	httpClient *http.Client
	delay      time.Duration
}

// Summary is the outcome of a played session
type Summary struct {
	SessionID    string
	PairsRemoved int
	Remaining    int
	Solved       bool
	Stuck        bool
}

func NewPlayer(baseURL string, delay time.Duration) *Player {
	return &Player{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		delay:      delay,
	}
}

func (p *Player) call(ctx context.Context, method, path string, body, result interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, errResp["error"])
	}
	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// CreateSession starts a new session from a preset; an empty configID uses the server default
func (p *Player) CreateSession(ctx context.Context, configID string) (*service.SessionInfo, error) {
	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}
	var info service.SessionInfo
	if err := p.call(ctx, http.MethodPost, "/api/sessions", body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (p *Player) selectTile(ctx context.Context, sessionID string, pos engine.Position) (*service.SelectResult, error) {
	var result service.SelectResult
	path := "/api/sessions/" + url.PathEscape(sessionID) + "/select"
	if err := p.call(ctx, http.MethodPost, path, pos, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Play removes hinted pairs until the board is solved or stuck, or maxPairs is reached (0 for no limit)
func (p *Player) Play(ctx context.Context, sessionID string, maxPairs int) (*Summary, error) {
	summary := &Summary{SessionID: sessionID}
	hintPath := "/api/sessions/" + url.PathEscape(sessionID) + "/hint"

	for maxPairs == 0 || summary.PairsRemoved < maxPairs {
		var hint service.HintResult
		if err := p.call(ctx, http.MethodGet, hintPath, nil, &hint); err != nil {
			return summary, err
		}
		summary.Solved, summary.Stuck = hint.Solved, hint.Stuck
		if !hint.Available || hint.First == nil || hint.Second == nil {
			break
		}

		if _, err := p.selectTile(ctx, sessionID, *hint.First); err != nil {
			return summary, err
		}
		result, err := p.selectTile(ctx, sessionID, *hint.Second)
		if err != nil {
			return summary, err
		}
		if result.Result != engine.MatchedAndRemoved {
			return summary, fmt.Errorf("hinted pair %v %v was not removed: %s", *hint.First, *hint.Second, result.Result)
		}

		summary.PairsRemoved++
		summary.Remaining = result.BoardState.Remaining
		summary.Solved, summary.Stuck = result.BoardState.Solved, result.BoardState.Stuck
		log.WithFields(log.Fields{
			"session":   sessionID,
			"identity":  hint.Identity,
			"first":     *hint.First,
			"second":    *hint.Second,
			"remaining": summary.Remaining,
		}).Info("Removed pair")

		if p.delay > 0 {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-time.After(p.delay):
			}
		}
	}

	return summary, nil
}

func main() {
	cmd := &cli.Command{
		Name:  "autoplay",
		Usage: "Play a session through the REST API using hints",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Server base URL", Sources: cli.EnvVars("MAHJONG_URL")},
			&cli.StringFlag{Name: "session", Usage: "Existing session to play (a new one is created when empty)"},
			&cli.StringFlag{Name: "preset", Usage: "Preset for a new session"},
			&cli.IntFlag{Name: "max-pairs", Usage: "Stop after this many pairs (0 for no limit)"},
			&cli.DurationFlag{Name: "delay", Value: 250 * time.Millisecond, Usage: "Pause between pairs"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			player := NewPlayer(cmd.String("url"), cmd.Duration("delay"))

			sessionID := cmd.String("session")
			if sessionID == "" {
				info, err := player.CreateSession(ctx, cmd.String("preset"))
				if err != nil {
					return err
				}
				sessionID = info.ID
				log.WithFields(log.Fields{"session": sessionID, "config": info.ConfigName}).Info("Created session")
			}

			summary, err := player.Play(ctx, sessionID, cmd.Int("max-pairs"))
			if err != nil {
				return err
			}
			log.WithFields(log.Fields{
				"session":   summary.SessionID,
				"removed":   summary.PairsRemoved,
				"remaining": summary.Remaining,
				"solved":    summary.Solved,
				"stuck":     summary.Stuck,
			}).Info("Done")
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
