// Package client is the StuffKeeper client SDK: a cookie-authenticated REST
// client plus the in-memory Session powering a UI over one user's inventory
// (local filtering, selection, derived statistics, and bulk edits).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"sync"
	"time"

	"github.com/lvoinea/stuffkeeper/services/inventory/domain/models"
	domainsvcs "github.com/lvoinea/stuffkeeper/services/inventory/domain/services"
	usermodels "github.com/lvoinea/stuffkeeper/services/user/domain/models"
)

const defaultTimeout = 30 * time.Second

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// Client is a session-cookie REST client for the StuffKeeper API.
//
// The item collection is cached locally after the first ListItems call, the
// way the web client keeps it in memory: writes update the cached copy from
// the server's canonical response, so repeated listings cost no round trip.
// Invalidate drops the cache and forces a reload.
//
// Client is safe for concurrent use.
type Client struct {
	baseURL string
	httpc   *http.Client

	mu         sync.Mutex
	items      []models.Item
	itemsValid bool
}

// New returns a Client for the API at baseURL (e.g. "http://localhost:8080").
// A cookie jar is attached so the session cookie from Login travels with
// every subsequent request.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("client: cookie jar: %w", err)
	}
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Jar: jar, Timeout: defaultTimeout},
	}, nil
}

// Login authenticates and stores the session cookie in the jar.
// Any cached items from a previous session are dropped.
func (c *Client) Login(ctx context.Context, email, password string) (*usermodels.User, error) {
	var user usermodels.User
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/login", body, &user); err != nil {
		return nil, err
	}
	c.Invalidate()
	return &user, nil
}

// Logout ends the session server-side and drops the local cache.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/logout", nil, nil); err != nil {
		return err
	}
	c.Invalidate()
	return nil
}

// Signup registers a new account. It does not log in.
func (c *Client) Signup(ctx context.Context, email, password string) (*usermodels.User, error) {
	var user usermodels.User
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/users", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Me returns the authenticated account.
func (c *Client) Me(ctx context.Context) (*usermodels.User, error) {
	var user usermodels.User
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListItems returns the user's full item collection, served from the local
// cache when valid. The returned slice is a copy; callers may mutate it.
func (c *Client) ListItems(ctx context.Context) ([]models.Item, error) {
	c.mu.Lock()
	if c.itemsValid {
		items := append([]models.Item(nil), c.items...)
		c.mu.Unlock()
		return items, nil
	}
	c.mu.Unlock()

	var items []models.Item
	if err := c.do(ctx, http.MethodGet, "/api/items", nil, &items); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.items = items
	c.itemsValid = true
	items = append([]models.Item(nil), c.items...)
	c.mu.Unlock()
	return items, nil
}

// GetItem returns one item by id, bypassing the local cache.
func (c *Client) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	if err := c.do(ctx, http.MethodGet, "/api/items/"+strconv.FormatInt(id, 10), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// AddItem creates a new item and prepends the server's canonical version to
// the local cache, keeping the newest-first order of a server listing.
func (c *Client) AddItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	req := map[string]any{
		"name":        item.Name,
		"description": item.Description,
		"code":        item.Code,
		"quantity":    item.Quantity,
		"cost":        item.Cost,
		"tags":        item.TagNames(),
		"locations":   item.LocationNames(),
	}
	if item.ExpirationDate != nil {
		req["expiration_date"] = item.ExpirationDate
	}
	if item.Photos != nil {
		req["photos"] = item.Photos
	}

	var created models.Item
	if err := c.do(ctx, http.MethodPost, "/api/items", req, &created); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.itemsValid {
		c.items = append([]models.Item{created}, c.items...)
	}
	c.mu.Unlock()
	return &created, nil
}

// SaveItem applies a sparse patch to one item and folds the server's
// canonical version into the local cache.
func (c *Client) SaveItem(ctx context.Context, id int64, patch models.Patch) (*models.Item, error) {
	var updated models.Item
	if err := c.do(ctx, http.MethodPatch, "/api/items/"+strconv.FormatInt(id, 10), patch, &updated); err != nil {
		return nil, err
	}
	c.replaceCached(updated)
	return &updated, nil
}

// ArchiveItem moves an item between the active and archived categories.
// The server stamps or clears the removal date.
func (c *Client) ArchiveItem(ctx context.Context, id int64, active bool) (*models.Item, error) {
	var updated models.Item
	path := "/api/items/" + strconv.FormatInt(id, 10) + "/archive"
	if err := c.do(ctx, http.MethodPost, path, map[string]bool{"active": active}, &updated); err != nil {
		return nil, err
	}
	c.replaceCached(updated)
	return &updated, nil
}

// DeleteItem permanently removes an item and drops it from the local cache.
func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, "/api/items/"+strconv.FormatInt(id, 10), nil, nil); err != nil {
		return err
	}
	c.mu.Lock()
	if c.itemsValid {
		for i := range c.items {
			if c.items[i].ID == id {
				c.items = append(c.items[:i], c.items[i+1:]...)
				break
			}
		}
	}
	c.mu.Unlock()
	return nil
}

// ListTags returns the user's tag vocabulary.
func (c *Client) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := c.do(ctx, http.MethodGet, "/api/tags", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// ListLocations returns the user's location vocabulary.
func (c *Client) ListLocations(ctx context.Context) ([]models.Location, error) {
	var locations []models.Location
	if err := c.do(ctx, http.MethodGet, "/api/locations", nil, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// RenameTag renames a tag across the whole inventory. The local item cache
// is invalidated because an unknown number of cached items carry the name.
func (c *Client) RenameTag(ctx context.Context, id int64, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := c.do(ctx, http.MethodPatch, "/api/tags/"+strconv.FormatInt(id, 10),
		map[string]string{"name": name}, &tag); err != nil {
		return nil, err
	}
	c.Invalidate()
	return &tag, nil
}

// RenameLocation is the location counterpart of RenameTag.
func (c *Client) RenameLocation(ctx context.Context, id int64, name string) (*models.Location, error) {
	var location models.Location
	if err := c.do(ctx, http.MethodPatch, "/api/locations/"+strconv.FormatInt(id, 10),
		map[string]string{"name": name}, &location); err != nil {
		return nil, err
	}
	c.Invalidate()
	return &location, nil
}

// Stats returns the server-computed whole-collection report.
func (c *Client) Stats(ctx context.Context) (*domainsvcs.InventoryReport, error) {
	var report domainsvcs.InventoryReport
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Invalidate drops the local item cache; the next ListItems reloads from the
// server.
func (c *Client) Invalidate() {
	c.mu.Lock()
	c.items = nil
	c.itemsValid = false
	c.mu.Unlock()
}

// replaceCached swaps one cached item for its new canonical version.
// A miss (item not cached yet) is ignored.
func (c *Client) replaceCached(item models.Item) {
	c.mu.Lock()
	if c.itemsValid {
		for i := range c.items {
			if c.items[i].ID == item.ID {
				c.items[i] = item
				break
			}
		}
	}
	c.mu.Unlock()
}

// do issues one JSON request. A non-2xx response is returned as *APIError
// with the server's error message when the body carries one.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("client: new request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

func errorMessage(body io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	data, err := io.ReadAll(io.LimitReader(body, 1<<16))
	if err != nil {
		return ""
	}
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		return payload.Error
	}
	return string(data)
}
