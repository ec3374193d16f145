// Package foodapi talks to the remote food API that owns restaurants, the
// food and protein taxonomies, recommendations, matches, test cards and
// recorded preferences.
package foodapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/leyumyum/leyum-web/internal/food"
)

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	timeout time.Duration
	log     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		log:     log.Named("foodapi"),
	}
}

func (c *Client) Restaurants(ctx context.Context) ([]string, error) {
	var env envelope
	if err := c.call(ctx, "restaurants", fiber.MethodGet, "/restaurants", nil, &env, "Failed to fetch restaurants"); err != nil {
		return nil, err
	}
	return env.Restaurants, nil
}

func (c *Client) FoodTypes(ctx context.Context) ([]string, error) {
	var env envelope
	if err := c.call(ctx, "food-types", fiber.MethodGet, "/food-types", nil, &env, "Failed to fetch food types"); err != nil {
		return nil, err
	}
	return env.FoodTypes, nil
}

func (c *Client) ProteinTypes(ctx context.Context) ([]string, error) {
	var env envelope
	if err := c.call(ctx, "protein-types", fiber.MethodGet, "/protein-types", nil, &env, "Failed to fetch protein types"); err != nil {
		return nil, err
	}
	return env.ProteinTypes, nil
}

func (c *Client) Recommend(ctx context.Context, req RecommendRequest) ([]food.Item, error) {
	var env envelope
	if err := c.call(ctx, "recommend", fiber.MethodPost, "/recommend", req, &env, "Failed to get recommendations"); err != nil {
		return nil, err
	}
	if env.Recommendations == nil {
		return []food.Item{}, nil
	}
	return env.Recommendations, nil
}

func (c *Client) Matches(ctx context.Context) (Matches, error) {
	var env envelope
	if err := c.call(ctx, "matches", fiber.MethodGet, "/matches", nil, &env, "Failed to get matches"); err != nil {
		return Matches{}, err
	}
	items := env.Matches
	if items == nil {
		items = []food.Item{}
	}
	return Matches{Items: items, Message: env.Message}, nil
}

func (c *Client) TestCards(ctx context.Context) ([]food.Item, error) {
	var env envelope
	if err := c.call(ctx, "test-cards", fiber.MethodGet, "/test-cards", nil, &env, "Failed to fetch test cards"); err != nil {
		return nil, err
	}
	if env.Cards == nil {
		return []food.Item{}, nil
	}
	return env.Cards, nil
}

func (c *Client) SavePreference(ctx context.Context, foodID int, liked bool) error {
	var env envelope
	return c.call(ctx, "preferences", fiber.MethodPost, "/preferences", preferenceRequest{FoodID: foodID, IsLiked: liked}, &env, "Failed to save preference")
}

// Health probes GET /health, which answers without the success envelope.
func (c *Client) Health(ctx context.Context) (string, error) {
	code, body, err := c.send(ctx, "health", fiber.MethodGet, "/health", nil)
	if err != nil {
		return "", err
	}
	if code < 200 || code > 299 {
		return "", transport("health", fmt.Errorf("unexpected status %d", code))
	}
	var reply healthReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return "", transport("health", err)
	}
	return reply.Status, nil
}

// call sends the request and decodes the success envelope into env.
// A success:false reply is an application error whatever the status code;
// anything else that is not a 2xx JSON envelope is a transport error.
func (c *Client) call(ctx context.Context, op, method, path string, body any, env *envelope, fallback string) error {
	code, raw, err := c.send(ctx, op, method, path, body)
	if err != nil {
		return err
	}

	decodeErr := json.Unmarshal(raw, env)
	if decodeErr == nil && !env.Success && (env.Error != "" || (code >= 200 && code <= 299)) {
		c.log.Debug("api reported failure", zap.String("op", op), zap.Int("status", code), zap.String("error", env.Error))
		return application(op, env.Error, fallback)
	}
	if code < 200 || code > 299 {
		return transport(op, fmt.Errorf("unexpected status %d", code))
	}
	if decodeErr != nil {
		return transport(op, decodeErr)
	}
	return nil
}

type reply struct {
	code int
	body []byte
	errs []error
}

// send runs one request on a fasthttp agent. fasthttp has no context
// support, so a cancelled ctx abandons the reply rather than the request.
func (c *Client) send(ctx context.Context, op, method, path string, body any) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, transport(op, err)
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	if body != nil {
		a.JSON(body)
	}
	timeout := c.timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); timeout <= 0 || left < timeout {
			timeout = left
		}
	}
	if timeout > 0 {
		a.Timeout(timeout)
	}
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return 0, nil, transport(op, err)
	}

	start := time.Now()
	done := make(chan reply, 1)
	go func() {
		code, b, errs := a.Bytes()
		done <- reply{code: code, body: b, errs: errs}
	}()

	select {
	case <-ctx.Done():
		c.log.Debug("request abandoned", zap.String("op", op), zap.Error(ctx.Err()))
		return 0, nil, transport(op, ctx.Err())
	case r := <-done:
		c.log.Debug("api call",
			zap.String("op", op),
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", r.code),
			zap.Duration("latency", time.Since(start)))
		if len(r.errs) > 0 {
			return 0, nil, transport(op, errors.Join(r.errs...))
		}
		return r.code, r.body, nil
	}
}
