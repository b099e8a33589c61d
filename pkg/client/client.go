// Package client provides a fluent builder for plant structures and an
// HTTP client for the florasim server API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/florasim/florasim/internal/flora"
)

// PlantBuilder provides a fluent API for building plant structures.
// Use it to assemble the parts of a plant before sending it to the
// server's replace endpoint.
type PlantBuilder struct {
	name        string
	description string
	parts       []*PartBuilder
}

// NewPlant creates a new plant builder with the given name and description.
func NewPlant(name, description string) *PlantBuilder {
	return &PlantBuilder{
		name:        name,
		description: description,
		parts:       make([]*PartBuilder, 0),
	}
}

// Part adds a part definition to the plant.
func (pb *PlantBuilder) Part(part *PartBuilder) *PlantBuilder {
	pb.parts = append(pb.parts, part)
	return pb
}

// Build converts the builder to a PlantConfig that can be used with
// ReplacePlant or other florasim APIs.
func (pb *PlantBuilder) Build() flora.PlantConfig {
	parts := make([]flora.PartConfig, 0, len(pb.parts))
	for _, part := range pb.parts {
		parts = append(parts, part.Build())
	}
	return flora.PlantConfig{
		Name:        pb.name,
		Description: pb.description,
		Parts:       parts,
	}
}

// PartBuilder provides a fluent API for building a single plant part.
type PartBuilder struct {
	partType   string
	color      string
	size       float64
	x, y       float64
	hasPos     bool
	growthRate string
	special    string
}

// NewPart creates a part builder for the given type and color.
// Size defaults to the standard initial size; position defaults to the
// center of the default placement region unless At is called.
func NewPart(partType, color string) *PartBuilder {
	return &PartBuilder{
		partType: partType,
		color:    color,
		size:     flora.DefaultPartSize,
	}
}

// Size sets the part's current size. Useful when round-tripping an
// already-grown plant.
func (pb *PartBuilder) Size(size float64) *PartBuilder {
	pb.size = size
	return pb
}

// At sets the part's placement on the canvas.
func (pb *PartBuilder) At(x, y float64) *PartBuilder {
	pb.x = x
	pb.y = y
	pb.hasPos = true
	return pb
}

// GrowthRate sets the part's growth rate class (slow, normal, fast, rapid).
func (pb *PartBuilder) GrowthRate(rate string) *PartBuilder {
	pb.growthRate = rate
	return pb
}

// Special sets the part's special behavior trait.
func (pb *PartBuilder) Special(trait string) *PartBuilder {
	pb.special = trait
	return pb
}

// Build converts the builder to a PartConfig.
func (pb *PartBuilder) Build() flora.PartConfig {
	x, y := pb.x, pb.y
	if !pb.hasPos {
		x, y = 200, 200
	}
	size := pb.size

	cfg := flora.PartConfig{
		Type:     &pb.partType,
		Color:    &pb.color,
		Size:     &size,
		Position: &flora.PositionConfig{X: &x, Y: &y},
	}
	if pb.growthRate != "" {
		cfg.GrowthRate = &pb.growthRate
	}
	if pb.special != "" {
		cfg.Special = &pb.special
	}
	return cfg
}

// Client talks to a florasim server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateGardenRequest describes a new garden.
type CreateGardenRequest struct {
	ID          string             `json:"id,omitempty"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Environment *flora.Environment `json:"environment,omitempty"`
}

// CreateGarden creates a garden and returns its initial snapshot.
func (c *Client) CreateGarden(ctx context.Context, req CreateGardenRequest) (flora.Snapshot, error) {
	var snap flora.Snapshot
	err := c.doJSON(ctx, http.MethodPost, []string{"gardens"}, req, &snap)
	return snap, err
}

// Plant fetches the current plant of a garden.
func (c *Client) Plant(ctx context.Context, gardenID string) (flora.Plant, error) {
	var snap flora.Snapshot
	if err := c.doJSON(ctx, http.MethodGet, []string{"gardens", gardenID}, nil, &snap); err != nil {
		return flora.Plant{}, err
	}
	return snap.Plant, nil
}

// Snapshot fetches a point-in-time capture of a garden.
func (c *Client) Snapshot(ctx context.Context, gardenID string) (flora.Snapshot, error) {
	var snap flora.Snapshot
	err := c.doJSON(ctx, http.MethodGet, []string{"gardens", gardenID, "snapshot"}, nil, &snap)
	return snap, err
}

// AddPartRequest describes a manually placed part. Only Type and Color
// are required; the server assigns the initial size.
type AddPartRequest struct {
	Type       string          `json:"type"`
	Color      string          `json:"color"`
	GrowthRate string          `json:"growthRate,omitempty"`
	Special    string          `json:"special,omitempty"`
	Position   *flora.Position `json:"position,omitempty"`
}

// AddPart appends a new part to the garden's plant and returns it.
func (c *Client) AddPart(ctx context.Context, gardenID string, req AddPartRequest) (flora.PlantPart, error) {
	var part flora.PlantPart
	err := c.doJSON(ctx, http.MethodPost, []string{"gardens", gardenID, "parts"}, req, &part)
	return part, err
}

// SetEnvironment updates one environment field (sunlight, water, or
// temperature) to a value in [0, 100].
func (c *Client) SetEnvironment(ctx context.Context, gardenID, field string, value float64) error {
	body := map[string]any{"field": field, "value": value}
	return c.doJSON(ctx, http.MethodPut, []string{"gardens", gardenID, "environment"}, body, nil)
}

// Tick applies n growth ticks and returns the resulting snapshot.
func (c *Client) Tick(ctx context.Context, gardenID string, n int) (flora.Snapshot, error) {
	var snap flora.Snapshot
	path := []string{"gardens", gardenID, "tick"}
	u, err := c.buildURL(path)
	if err != nil {
		return snap, err
	}
	if n > 1 {
		u += fmt.Sprintf("?n=%d", n)
	}
	err = c.doJSONURL(ctx, http.MethodPost, u, nil, &snap)
	return snap, err
}

// Generate asks the server to AI-generate a plant for the description
// and returns the resulting snapshot.
func (c *Client) Generate(ctx context.Context, gardenID, description string) (flora.Snapshot, error) {
	var snap flora.Snapshot
	body := map[string]string{"description": description}
	err := c.doJSON(ctx, http.MethodPost, []string{"gardens", gardenID, "generate"}, body, &snap)
	return snap, err
}

// ReplacePlant wholesale-replaces the garden's plant with the built
// structure, keeping the garden's environment.
func (c *Client) ReplacePlant(ctx context.Context, gardenID string, plant *PlantBuilder) (flora.Snapshot, error) {
	var snap flora.Snapshot
	err := c.doJSON(ctx, http.MethodPost, []string{"gardens", gardenID, "replace"}, plant.Build(), &snap)
	return snap, err
}

func (c *Client) buildURL(path []string) (string, error) {
	parts := append([]string{c.baseURL}, path...)
	u, err := url.JoinPath(parts[0], parts[1:]...)
	if err != nil {
		return "", fmt.Errorf("failed to build URL: %w", err)
	}
	return u, nil
}

func (c *Client) doJSON(ctx context.Context, method string, path []string, body, out any) error {
	u, err := c.buildURL(path)
	if err != nil {
		return err
	}
	return c.doJSONURL(ctx, method, u, body, out)
}

func (c *Client) doJSONURL(ctx context.Context, method, u string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
